package validation

// Interface languages the app ships translations for.
var supportedLanguages = map[string]bool{
	"en": true,
	"he": true,
	"es": true,
}

// IsSupportedLanguage reports whether the code names a UI language.
func IsSupportedLanguage(code string) bool {
	return supportedLanguages[code]
}
