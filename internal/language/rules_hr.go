package language

import xlanguage "golang.org/x/text/language"

func newCroatianClassifier() *Classifier {
	return NewClassifier(xlanguage.Croatian, []Rule{
		{
			Name: "pronouns",
			Match: OneOf("ja", "ti", "on", "ona", "ono", "mi", "vi", "oni", "one",
				"me", "te", "se", "ga", "mu", "nas", "vas", "ih", "njega", "njoj", "njih"),
			POS: Pronoun,
		},
		{
			Name: "prepositions",
			Match: OneOf("u", "na", "za", "s", "sa", "iz", "do", "od", "po", "prema", "kroz",
				"o", "k", "ka", "uz", "bez", "kod", "pri", "nad", "pod", "pred", "među", "protiv"),
			POS: Preposition,
		},
		{
			Name: "conjunctions",
			Match: OneOf("i", "a", "ali", "ili", "da", "ako", "jer", "kad", "kada", "dok",
				"pa", "no", "nego", "niti", "iako"),
			POS: Conjunction,
		},
		{
			Name:  "interjections",
			Match: OneOf("oh", "ah", "eh", "uh", "aha", "joj", "hej", "ej", "bok"),
			POS:   Interjection,
		},
		{
			Name:  "verb endings",
			Match: EndsWith("ti", "ći", "am", "aš", "im", "iš"),
			POS:   Verb,
		},
		{
			Name:  "adjective endings",
			Match: EndsWith("ski", "ški", "čki"),
			POS:   Adjective,
		},
		{
			Name:  "adverb endings",
			Match: EndsWith("no", "ko"),
			POS:   Adverb,
		},
		{
			Name:  "long adverbs in -je",
			Match: EndsWithMinLen(5, "je"),
			POS:   Adverb,
		},
	})
}
