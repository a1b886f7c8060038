package conversation

import "github.com/orderlyy/orderlyy-backend/pkg/telegram"

const (
	textWelcome = "👋 <b>Welcome to Orderlyy!</b>\nRun your store right here in Telegram. Pick an option below."
	textIdle    = "ℹ️ Nothing in progress. Pick an option below."

	textCanceled       = "✖️ Canceled."
	textSomethingWrong = "😕 Something went wrong. Please try again."
	textNotFound       = "🔎 That item no longer exists."
	textForbidden      = "🚫 That action is not yours to take."
	textAlreadyHandled = "⏱ Already handled."
	textOutOfStock     = "📦 Sorry, this product is out of stock."

	textSubscriptionBlocked = "⏳ <b>Your subscription has expired.</b>\nContact support to keep selling: %s"

	textAskStoreName     = "🏪 What should your store be called?"
	textAskCurrency      = "💱 Which currency do you sell in? Send a symbol or 3-letter code, e.g. <code>₦</code> or <code>NGN</code>."
	textAskDeliveryNote  = "🚚 Any delivery note for buyers? Send it now, or /skip."
	textStoreCreated     = "🎉 <b>%s is live!</b>\nYour dashboard: %s\n\nNext: link your channel and add products."
	textAlreadyHaveStore = "🏪 You already have a store."
	textNeedStore        = "🏪 You need a store first. Tap <b>Create store</b>."
	textNeedChannel      = "📣 Link a channel first so products have somewhere to go."

	textAskChannel = "📣 Forward any message from your channel, or send its @username.\nMake sure this bot is an admin there."
	textNotAdmin   = "🚫 You must be an admin of that channel. Try another one."
	textBotNotAdmin = "🤖 Add this bot as an admin of the channel first, then try again."
	textChannelLinked = "✅ Channel linked. New products will be published there."

	textAskProductPhoto = "📷 Send a product photo, or /skip."
	textAskProductName  = "🏷 Product name?"
	textAskProductPrice = "💰 Price? Digits only, e.g. <code>1500</code>."
	textBadPrice        = "💰 That doesn't look like a price. Digits only, e.g. <code>1500</code>."
	textAskProductDesc  = "📝 Description? Send it now, or /skip."
	textAskProductStock = "📦 Is it in stock right now? Reply <b>yes</b> or <b>no</b>."
	textBadStock        = "📦 Please reply <b>yes</b> or <b>no</b>."
	textProductAdded    = "✅ <b>%s</b> added."
	textProductPosted   = "✅ <b>%s</b> added and published to your channel."
	textPublishFailed   = "⚠️ <b>%s</b> added, but publishing to the channel failed. Check the bot's admin rights."

	textAskQty          = "🛒 <b>%s</b> — %s %s each.\nHow many would you like?"
	textBadQty          = "🔢 Send a whole number greater than zero."
	textStoreClosed     = "😔 This store is currently unavailable."
	textAskProof        = "💳 Send a photo or file of your payment receipt."
	textProofNeeded     = "💳 I need a photo or document of the receipt."
	textProofReceived   = "🙌 Proof received! The seller will confirm shortly."
	textAskAddress      = "🏠 Send your delivery address and phone number."
	textAddressReceived = "✅ Delivery details saved. The seller is preparing your order."

	textPaymentApproved = "✅ Payment confirmed."
	textPaymentRejected = "❌ Payment rejected. The buyer was notified."
	textStageUpdated    = "🚚 Order marked <b>%s</b>."

	textNewOrderSeller = "🛎 <b>New order!</b>\n%s × %d\nTotal: %s %s\nBuyer: %s"
	textPayInstructions = "🧾 <b>Order placed!</b>\n%s × %d\nTotal: <b>%s %s</b>\n\n%s\n\nWhen you've paid, tap the button below."
	textNoBankDetails   = "The seller will contact you with payment details."
)

func menuRows() [][]telegram.Button {
	return [][]telegram.Button{
		{
			{Text: "🏪 Create store", Callback: "menu:create"},
			{Text: "📣 Link channel", Callback: "menu:link"},
		},
		{
			{Text: "➕ Add product", Callback: "menu:add"},
			{Text: "📊 Dashboard", Callback: "menu:dashboard"},
		},
		{
			{Text: "⭐ Subscription", Callback: "menu:sub"},
		},
	}
}
