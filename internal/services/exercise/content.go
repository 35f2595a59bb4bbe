package exercise

import "github.com/rbt-academy/trainer/internal/model"

// Objections is the pool the objection drill samples from
var Objections = []string{
	"Another store sells it 2000 rubles cheaper!",
	"I need to think about it, I'll come back later.",
	"Why would I need an extended warranty?",
	"I've never heard of this brand.",
	"I've seen bad reviews of this model.",
	"Delivery is too expensive.",
	"Too many buttons, I'll never figure it out.",
	"There are always queues in your store.",
	"I'll wait for the Black Friday discounts.",
	"I was told this model breaks down often.",
	"Why should I pay for installation?",
	"I'll look for this model on a marketplace.",
	"Credit is a trap, I don't want to pay interest.",
	"The colour doesn't match my kitchen.",
	"Your consultant was rude to me last time.",
}

// FixTasks is the pool of flawed replies for the fix-the-error drill
var FixTasks = []model.FixTask{
	{
		Bad:     "What's the difference, they all wash the same. Take this one and stop worrying.",
		Context: "The customer is hesitating between two washing machine models.",
	},
	{
		Bad:     "Expensive? Well, at least ours is the original, not some fake from the market.",
		Context: "The customer says the smartphone price is too high.",
	},
	{
		Bad:     "I'm busy with something else right now, wait for a free consultant, they'll be along soon.",
		Context: "The customer asks for help choosing a kettle while you are putting out price tags.",
	},
	{
		Bad:     "Why read all that? I'm telling you, it's a good powerful vacuum, you should take it.",
		Context: "The customer is studying the specifications on the box.",
	},
	{
		Bad:     "No returns if you just changed your mind. Read the law, electronics are technically complex goods.",
		Context: "The customer asks whether the item can be returned within 14 days.",
	},
	{
		Bad:     "That model is bad, it breaks all the time. Take this one, we have a sales target on it.",
		Context: "The customer asks about a particular TV brand.",
	},
	{
		Bad:     "Oh, I don't know the specs, look at the price tag, it's all written there.",
		Context: "The customer asks for a detailed explanation of a modern fridge's features.",
	},
	{
		Bad:     "This TV is out of your budget, let's look at something simpler, around thirty thousand.",
		Context: "The customer is admiring the top Samsung OLED model.",
	},
	{
		Bad:     "There are no more discounts, the price is already rock bottom. Buy it or it'll cost more tomorrow.",
		Context: "The customer asks for at least a small discount on a bundle.",
	},
	{
		Bad:     "The manufacturer's warranty is slow and painful. If it breaks you'll be hauling it across town yourself.",
		Context: "The employee is pushing the extended service package.",
	},
	{
		Bad:     "That brand is cheap junk, you'll throw it out in a month. Take our partner brand instead.",
		Context: "The customer is interested in a budget but popular kettle brand.",
	},
	{
		Bad:     "What did you expect for that money? It's the budget segment, the plastic creaks everywhere.",
		Context: "The customer complains about a loose case on an inexpensive laptop.",
	},
	{
		Bad:     "I can't check it for dead pixels, there's a queue. You can check it at home.",
		Context: "The customer wants to check the TV before paying for delivery.",
	},
	{
		Bad:     "Who needs those functions? You're overpaying for marketing. Take a simple push-button phone.",
		Context: "An elderly customer is interested in a smartphone with health monitoring.",
	},
	{
		Bad:     "Why would you need to know about speed and power? The main thing is it comes in red!",
		Context: "A young woman asks technical questions about a professional hair dryer.",
	},
	{
		Bad:     "If you don't buy now, don't complain later that the promotion ended. I warned you.",
		Context: "The seller tries to use time pressure to close the deal.",
	},
}

// Products are the items the simulated client asks about
var Products = []model.Product{
	{Name: `OLED TV Samsung 55"`, BasePrice: 129990},
	{Name: "Haier Side-by-Side fridge", BasePrice: 84990},
	{Name: "iPhone 15 Pro 256GB", BasePrice: 115990},
	{Name: "LG Steam washing machine", BasePrice: 45990},
	{Name: "PlayStation 5 Slim", BasePrice: 59990},
}

// FallbackQuiz is served when quiz generation is unavailable
var FallbackQuiz = []model.QuizQuestion{
	{
		Question: "A customer says: \"I'm just looking.\" What do you answer?",
		Options: []model.QuizOption{
			{Text: "Of course, take your time. I'm nearby if you want to compare models.", Score: 30, Feedback: "Friendly and leaves the door open."},
			{Text: "Then don't touch the display units.", Score: -20, Feedback: "Rude and pushes the customer away."},
			{Text: "Okay.", Score: 5, Feedback: "Polite but a missed chance to engage."},
		},
	},
	{
		Question: "A customer says: \"It's cheaper online.\" What do you answer?",
		Options: []model.QuizOption{
			{Text: "Here you can check it today, get it set up and bring it back to us if anything goes wrong.", Score: 30, Feedback: "Shows the value of buying in store."},
			{Text: "Then buy it online.", Score: -20, Feedback: "You just lost the sale."},
			{Text: "Prices are set by head office.", Score: 5, Feedback: "True but it doesn't help the customer."},
		},
	},
	{
		Question: "A customer says: \"I need to ask my wife first.\" What do you answer?",
		Options: []model.QuizOption{
			{Text: "Good idea. Let me note the model and the price so you can show her, and we can hold it until tomorrow.", Score: 30, Feedback: "Respects the decision and keeps the deal alive."},
			{Text: "You can decide yourself, surely?", Score: -20, Feedback: "Pressure like this breaks trust."},
			{Text: "Come back later then.", Score: 5, Feedback: "Nothing wrong, but nothing gained."},
		},
	},
}

// FallbackScenario is served when scenario generation is unavailable
var FallbackScenario = model.SellScenario{
	Product: "Robot vacuum cleaner",
	Steps: []model.SellStep{
		{
			Client: "I'm not sure a robot vacuum really cleans properly.",
			Options: []model.QuizOption{
				{Text: "Let me show you the cleaning report from the app and how it handles carpets.", Score: 30, Feedback: "Proof beats promises."},
				{Text: "They all clean fine.", Score: 0, Feedback: "Too vague to convince anyone."},
				{Text: "If you don't trust it, buy a regular one.", Score: -20, Feedback: "You gave up on the customer."},
			},
		},
		{
			Client: "And what about my cat's hair?",
			Options: []model.QuizOption{
				{Text: "This model has a rubber brush that doesn't tangle and a large container for pet hair.", Score: 30, Feedback: "Concrete answer to a concrete worry."},
				{Text: "Just empty it more often.", Score: 5, Feedback: "True but unhelpful."},
				{Text: "Cats are not our problem.", Score: -30, Feedback: "Dismissive and rude."},
			},
		},
		{
			Client: "Okay, but it's still expensive.",
			Options: []model.QuizOption{
				{Text: "It saves you about an hour every day. We can also split the payment over six months.", Score: 30, Feedback: "Value first, then an easy way to pay."},
				{Text: "Quality costs money.", Score: 5, Feedback: "A cliche that doesn't move the sale."},
				{Text: "Then look at something cheaper.", Score: -10, Feedback: "You pushed the customer down-market without asking."},
			},
		},
	},
}
