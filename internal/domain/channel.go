package domain

type Channel string

const (
	ChannelCash        Channel = "cash"
	ChannelPaymob      Channel = "paymob"
	ChannelValu        Channel = "valu"
	ChannelVisaMachine Channel = "visa_machine"
	ChannelInstapay    Channel = "instapay"
	ChannelWallet      Channel = "wallet"
	ChannelOnHand      Channel = "on_hand"
	ChannelOther       Channel = "other"
)

var Channels = []Channel{
	ChannelCash,
	ChannelPaymob,
	ChannelValu,
	ChannelVisaMachine,
	ChannelInstapay,
	ChannelWallet,
	ChannelOnHand,
	ChannelOther,
}

// CashOnDeliveryChannels make up the "total cash on delivery" figure.
var CashOnDeliveryChannels = []Channel{
	ChannelVisaMachine,
	ChannelInstapay,
	ChannelWallet,
	ChannelOnHand,
}
