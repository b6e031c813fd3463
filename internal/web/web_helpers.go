package web

import (
	"html/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CurrentUser is the name returned by the currentUser template helper
const CurrentUser = "Neil Stackman"

// nowFunc is swapped in tests
var nowFunc = time.Now

// TemplateFuncs returns the helpers every page and partial can call:
//
//	{{currentYear}}          current UTC year
//	{{currentUser}}          fixed site owner name
//	{{screamIt .pageTitle}}  upper-cased argument
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"currentYear": currentYear,
		"currentUser": currentUser,
		"screamIt":    screamIt,
	}
}

func currentYear() int {
	return nowFunc().UTC().Year()
}

func currentUser() string {
	return CurrentUser
}

func screamIt(text string) string {
	// a Caser keeps state, build one per call
	return cases.Upper(language.Und).String(text)
}
