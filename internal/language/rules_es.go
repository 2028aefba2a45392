package language

import xlanguage "golang.org/x/text/language"

func newSpanishClassifier() *Classifier {
	return NewClassifier(xlanguage.Spanish, []Rule{
		{
			Name: "pronouns",
			Match: OneOf("yo", "tú", "él", "ella", "ello", "nosotros", "nosotras", "vosotros",
				"vosotras", "ellos", "ellas", "usted", "ustedes", "me", "te", "se", "lo", "le",
				"nos", "os", "les"),
			POS: Pronoun,
		},
		{
			Name: "prepositions",
			Match: OneOf("a", "ante", "bajo", "con", "contra", "de", "desde", "en", "entre",
				"hacia", "hasta", "para", "por", "según", "sin", "sobre", "tras"),
			POS: Preposition,
		},
		{
			Name:  "conjunctions",
			Match: OneOf("y", "e", "o", "u", "ni", "pero", "sino", "que", "porque", "aunque", "si", "cuando"),
			POS:   Conjunction,
		},
		{
			Name:  "interjections",
			Match: OneOf("ay", "oh", "ah", "eh", "hola", "olé", "uf"),
			POS:   Interjection,
		},
		{
			Name:  "adverbs in -mente",
			Match: EndsWith("mente"),
			POS:   Adverb,
		},
		{
			Name:  "infinitives",
			Match: EndsWithMinLen(4, "ar", "er", "ir"),
			POS:   Verb,
		},
		{
			Name:  "adjective endings",
			Match: EndsWith("oso", "osa", "ble", "ivo", "iva"),
			POS:   Adjective,
		},
	})
}
