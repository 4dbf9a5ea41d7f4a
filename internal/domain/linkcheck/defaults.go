package linkcheck

var coreNewsDomains = []string{
	"thehindu.com",
	"indianexpress.com",
	"hindustantimes.com",
	"timesofindia.indiatimes.com",
	"ndtv.com",
	"news18.com",
	"deccanherald.com",
	"newindianexpress.com",
	"thenewsminute.com",
	"scroll.in",
	"theprint.in",
	"livemint.com",
	"downtoearth.org.in",
	"thebetterindia.com",
	"indiatoday.in",
	"bbc.com",
	"reuters.com",
}

var localNewsDomains = []string{
	"mid-day.com",
	"deccanchronicle.com",
	"tribuneindia.com",
	"telanganatoday.com",
	"thehansindia.com",
	"dtnext.in",
	"punemirror.com",
	"bangaloremirror.indiatimes.com",
	"mumbailive.com",
	"lbb.in",
	"whatshot.in",
	"allevents.in",
	"insider.in",
	"townscript.com",
	"eventbrite.com",
	"meetup.com",
}

var forumDomains = []string{
	"reddit.com",
	"quora.com",
	"dogforum.com",
	"thecatsite.com",
}

var centreDomains = []string{
	"justdial.com",
	"sulekha.com",
	"google.com",
	"maps.app.goo.gl",
	"openstreetmap.org",
	"petbacker.in",
	"practo.com",
	"zigly.com",
	"headsupfortails.com",
}

var newsKeywords = []string{
	"pet", "pets", "pet care", "pet parents",
	"dog", "dogs", "puppy", "puppies", "canine",
	"cat", "cats", "kitten", "kittens", "feline",
	"animal", "animals", "animal welfare",
	"stray", "strays", "rescue", "rescued",
	"adopt", "adoption", "shelter",
	"vet", "vets", "veterinary", "vaccination", "rabies",
	"sterilisation", "sterilization", "grooming",
}

var centreKeywords = []string{
	"vet", "veterinary", "pet clinic", "animal hospital",
	"pet shop", "pet store", "pet care",
	"grooming", "groomer", "boarding", "kennel", "daycare",
	"shelter", "pet", "pets", "dog", "dogs", "cat", "cats",
}

var negativeKeywords = []string{
	// sports
	"cricket", "ipl", "football", "fifa", "world cup", "tennis", "kabaddi",
	// politics
	"election", "elections", "lok sabha", "parliament", "assembly polls",
	// finance
	"sensex", "nifty", "stock market", "ipo", "cryptocurrency", "bitcoin", "mutual fund",
	// entertainment
	"bollywood", "box office", "web series", "trailer",
	// tech
	"smartphone", "iphone", "android", "gadget", "laptop",
}

// DefaultPolicies returns the built-in category policies.
func DefaultPolicies() PolicySet {
	news := make([]string, 0, len(coreNewsDomains)+len(localNewsDomains)+len(forumDomains))
	news = append(news, coreNewsDomains...)
	news = append(news, localNewsDomains...)
	news = append(news, forumDomains...)

	return NewPolicySet([]Policy{
		{
			Category:         CategoryNews,
			Allowlist:        news,
			PositiveKeywords: newsKeywords,
			MinKeywordHits:   2,
		},
		{
			Category:         CategoryCentres,
			Allowlist:        centreDomains,
			MapsOnlyDomains:  []string{"google.com"},
			PositiveKeywords: centreKeywords,
			MinKeywordHits:   1,
		},
	}, negativeKeywords)
}
