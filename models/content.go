package models

// ContentBundle is every piece of copy the deck templates need. A translated
// bundle must carry exactly the same keys as EnglishContent.
type ContentBundle struct {
	Intro               IntroCopy       `json:"intro"`
	UseCases            UseCaseCopySet  `json:"useCases"`
	PriceDropTemplate   PriceDropCopy   `json:"priceDropTemplate"`
	Pos                 PosCopy         `json:"pos"`
	Extro               ExtroCopy       `json:"extro"`
	LowStockTemplate    LowStockCopy    `json:"lowStockTemplate"`
	BackInStockTemplate BackInStockCopy `json:"backInStockTemplate"`
}

type IntroCopy struct {
	Headline string `json:"headline"`
	Greeting string `json:"greeting"`
	P1       string `json:"p1"`
	P2       string `json:"p2"`
	Li1      string `json:"li1"`
	Li2      string `json:"li2"`
	Li3      string `json:"li3"`
	P3       string `json:"p3"`
	P4       string `json:"p4"`
	P5       string `json:"p5"`
	Footer   string `json:"footer"`
}

// UseCaseCopy is the headline and message of one use-case page
type UseCaseCopy struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
}

type UseCaseCopySet struct {
	PriceDrop         UseCaseCopy `json:"priceDrop"`
	LowStock          UseCaseCopy `json:"lowStock"`
	BackInStock       UseCaseCopy `json:"backInStock"`
	WishlistReminder  UseCaseCopy `json:"wishlistReminder"`
	WishlistIncentive UseCaseCopy `json:"wishlistIncentive"`
}

type PriceDropCopy struct {
	Greeting           string `json:"greeting"`
	OriginalPriceLabel string `json:"originalPriceLabel"`
	NewPriceLabel      string `json:"newPriceLabel"`
	BuyNowButton       string `json:"buyNowButton"`
	ReplyButton        string `json:"replyButton"`
	ForwardButton      string `json:"forwardButton"`
}

type PosCopy struct {
	PageTitle         string `json:"pageTitle"`
	EditPreferences   string `json:"editPreferences"`
	WishlistHeader    string `json:"wishlistHeader"`
	BackInStockHeader string `json:"backInStockHeader"`
	ViewAll           string `json:"viewAll"`
}

type ExtroCopy struct {
	Headline  string `json:"headline"`
	P1        string `json:"p1"`
	P2        string `json:"p2"`
	P3        string `json:"p3"`
	P4        string `json:"p4"`
	P5        string `json:"p5"`
	CtaButton string `json:"ctaButton"`
	Footer    string `json:"footer"`
}

type LowStockCopy struct {
	Headline      string `json:"headline"`
	MetaPrefix    string `json:"metaPrefix"`
	MetaPrice     string `json:"metaPrice"`
	Warning       string `json:"warning"`
	Description   string `json:"description"`
	BuyNowButton  string `json:"buyNowButton"`
	ReplyButton   string `json:"replyButton"`
	ForwardButton string `json:"forwardButton"`
}

type BackInStockCopy struct {
	Headline      string `json:"headline"`
	MetaPrefix    string `json:"metaPrefix"`
	MetaPrice     string `json:"metaPrice"`
	Description   string `json:"description"`
	BuyNowButton  string `json:"buyNowButton"`
	ReplyButton   string `json:"replyButton"`
	ForwardButton string `json:"forwardButton"`
}

// EnglishContent returns a fresh copy of the source-language bundle.
func EnglishContent() ContentBundle {
	return ContentBundle{
		Intro: IntroCopy{
			Headline: "Turn Wishlist Intent into Revenue Growth",
			Greeting: "Hi Marketing Team at",
			P1:       "Shoppers love wishlists — but wishlists alone don’t grow your sales.",
			P2:       "At Swym, we help you turn wishlisted intent into real revenue by making it easy for your shoppers to:",
			Li1:      "Save the products they love",
			Li2:      "Get timely reminders when prices drop, stock is low, or products come back in stock",
			Li3:      "Complete their purchase at the perfect moment",
			P3:       "Our smart wishlist solutions integrate seamlessly with your store, giving you tools to nudge shoppers through email or SMS, based on real-time changes and their shopping behavior.",
			P4:       "To show you what’s possible, here are five examples of personalized nudges you could send to your shoppers, each tailored to boost engagement and drive conversions.",
			P5:       "And yes, each and everyone of these is highly customizable to fit your brand and your shoppers.",
			Footer:   "Let’s turn your shoppers’ intent into your next revenue win.",
		},
		UseCases: UseCaseCopySet{
			PriceDrop: UseCaseCopy{
				Headline: "Price Drop Alert!",
				Message:  "Good news — an item on your wishlist just dropped in price, grab it before it's gone!",
			},
			LowStock: UseCaseCopy{
				Headline: "Low Stock Warning!",
				Message:  "Don't forget — your saved items are waiting for you. Make them yours!",
			},
			BackInStock: UseCaseCopy{
				Headline: "Back in Stock!",
				Message:  "Great news — an item from your wishlist is back in stock. Make it yours before it’s gone!",
			},
			WishlistReminder: UseCaseCopy{
				Headline: "Don't Forget Your Wishlist!",
				Message:  "You’ve saved this cool item to your wishlist. Ready to make it yours?",
			},
			WishlistIncentive: UseCaseCopy{
				Headline: "Wish to Win!",
				Message:  "Hurry — an item on your wishlist is almost sold out. Grab it before it’s gone!",
			},
		},
		PriceDropTemplate: PriceDropCopy{
			Greeting:           "Hey you! Yes, the awesome you! Here's a little update you'll like",
			OriginalPriceLabel: "Original Price",
			NewPriceLabel:      "Price",
			BuyNowButton:       "Buy Now",
			ReplyButton:        "Reply",
			ForwardButton:      "Forward",
		},
		Pos: PosCopy{
			PageTitle:         "View shopper wishlist on the in-store POS terminal",
			EditPreferences:   "Edit Preferences",
			WishlistHeader:    "Wishlists",
			BackInStockHeader: "Back in Stock Requests",
			ViewAll:           "View All",
		},
		Extro: ExtroCopy{
			Headline:  "Let's Turn Every Shopper Signal into Revenue",
			P1:        "Modern shoppers leave intent signals everywhere — from your website and mobile app to your POS in-store. Swym brings these signals together, so you can connect with shoppers when it matters most.",
			P2:        "You’ve seen some examples of how we help brands deliver timely, personalized nudges through email, SMS, and in-store experiences that feel seamless and genuine.",
			P3:        "Each of these examples is highly customizable to fit your brand and your shoppers. You envision it and we'll make it happen.",
			P4:        "We’d love for you to experience how Swym can help you unlock this potential — and make every wishlist, alert, and interaction an opportunity for growth.",
			P5:        "We've got so much more to show you.",
			CtaButton: "Schedule a consultation with us to learn more",
			Footer:    "Let’s turn shopper intent into your next big win — together.",
		},
		LowStockTemplate: LowStockCopy{
			Headline:      "Hurry! Your Favorite Item is Almost Out of Stock!",
			MetaPrefix:    "Only a few left!",
			MetaPrice:     "Price",
			Warning:       "⚠️ Low Stock: Act Fast!",
			Description:   "The item you've been eyeing is almost sold out. Secure yours now before it's too late!",
			BuyNowButton:  "Buy Now",
			ReplyButton:   "Reply",
			ForwardButton: "Forward",
		},
		BackInStockTemplate: BackInStockCopy{
			Headline:      "Exciting News! Your Favorite Item is Back in Stock!",
			MetaPrefix:    "Available Now!",
			MetaPrice:     "Price",
			Description:   "Great news! The item you've been waiting for is back in stock. Don't miss out on the chance to grab it before it's gone again!",
			BuyNowButton:  "Buy Now",
			ReplyButton:   "Reply",
			ForwardButton: "Forward",
		},
	}
}
