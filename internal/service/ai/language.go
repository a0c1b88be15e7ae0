package ai

// DefaultLanguageCode is assumed when a session carries no preference.
const DefaultLanguageCode = "en-US"

// languageNames maps the supported session language codes to the natural
// language name the model is instructed to answer in.
var languageNames = map[string]string{
	"en-US": "English",
	"te-IN": "Telugu",
	"hi-IN": "Hindi",
	"ta-IN": "Tamil",
}

// languageName resolves a language code, defaulting to English for codes
// outside the table.
func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}
