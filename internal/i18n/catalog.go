package i18n

import "github.com/go-playground/locales"

type plural struct {
	one   string
	other string
}

var messages = map[string]map[string]string{
	"en": {
		"general":            "General",
		"topic":              "Topic {0}",
		"hiddenfromstudents": "Hidden from students",
		"hidden":             "{0} (hidden)",
		"done":               "Done",
		"todo":               "To do",
		"video":              "Video",
		"backto":             "Back to {0}",
		"progresstotal":      "{0} of {1} completed",
		"currentsection":     "This topic",
		"teachers":           "Teachers",
		"courseindex":        "Course index",
		"maincoursepage":     "Main course page",
		"jumpto":             "Jump to...",
		"coursetab":          "Course",
	},
	"nl": {
		"general":            "Algemeen",
		"topic":              "Onderwerp {0}",
		"hiddenfromstudents": "Verborgen voor leerlingen",
		"hidden":             "{0} (verborgen)",
		"done":               "Klaar",
		"todo":               "Te doen",
		"video":              "Video",
		"backto":             "Terug naar {0}",
		"progresstotal":      "{0} van {1} voltooid",
		"currentsection":     "Dit onderwerp",
		"teachers":           "Docenten",
		"courseindex":        "Cursusindex",
		"maincoursepage":     "Hoofdpagina van de cursus",
		"jumpto":             "Ga naar...",
		"coursetab":          "Cursus",
	},
}

var plurals = map[string]map[string]plural{
	"en": {
		"activity": {"{0} activity", "{0} activities"},
		"reading":  {"{0} reading", "{0} readings"},
		"video":    {"{0} video", "{0} videos"},
		"page":     {"{0} page", "{0} pages"},
		"quiz":     {"{0} quiz", "{0} quizzes"},
		"assign":   {"{0} assignment", "{0} assignments"},
		"forum":    {"{0} forum", "{0} forums"},
		"url":      {"{0} link", "{0} links"},
		"resource": {"{0} file", "{0} files"},
		"book":     {"{0} book", "{0} books"},
		"lesson":   {"{0} lesson", "{0} lessons"},
	},
	"nl": {
		"activity": {"{0} activiteit", "{0} activiteiten"},
		"reading":  {"{0} leesstuk", "{0} leesstukken"},
		"video":    {"{0} video", "{0} video's"},
		"page":     {"{0} pagina", "{0} pagina's"},
		"quiz":     {"{0} test", "{0} testen"},
		"assign":   {"{0} opdracht", "{0} opdrachten"},
		"forum":    {"{0} forum", "{0} forums"},
		"url":      {"{0} link", "{0} links"},
		"resource": {"{0} bestand", "{0} bestanden"},
		"book":     {"{0} boek", "{0} boeken"},
		"lesson":   {"{0} les", "{0} lessen"},
	},
}

var pluralRules = []struct {
	rule locales.PluralRule
	pick func(plural) string
}{
	{locales.PluralRuleOne, func(p plural) string { return p.one }},
	{locales.PluralRuleOther, func(p plural) string { return p.other }},
}
