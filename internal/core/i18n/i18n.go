package i18n

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yml
var localesFS embed.FS

// Translations holds all translation strings organized by section
type Translations struct {
	Config       ConfigTranslations       `yaml:"config"`
	ConfigReview ConfigReviewTranslations `yaml:"config_review"`
	Help         HelpTranslations         `yaml:"help"`
	Download     DownloadTranslations     `yaml:"download"`
	Info         InfoTranslations         `yaml:"info"`
	Prompt       PromptTranslations       `yaml:"prompt"`
	Errors       ErrorTranslations        `yaml:"errors"`
}

type ConfigTranslations struct {
	StepOf        string `yaml:"step_of"`
	Language      string `yaml:"language"`
	LanguageDesc  string `yaml:"language_desc"`
	OutputDir     string `yaml:"output_dir"`
	OutputDirDesc string `yaml:"output_dir_desc"`
	Retries       string `yaml:"retries"`
	RetriesDesc   string `yaml:"retries_desc"`
	Confirm       string `yaml:"confirm"`
	ConfirmDesc   string `yaml:"confirm_desc"`
	YesSave       string `yaml:"yes_save"`
	NoCancel      string `yaml:"no_cancel"`
	Recommended   string `yaml:"recommended"`
}

type ConfigReviewTranslations struct {
	Language  string `yaml:"language"`
	OutputDir string `yaml:"output_dir"`
	Retries   string `yaml:"retries"`
}

type HelpTranslations struct {
	Back    string `yaml:"back"`
	Next    string `yaml:"next"`
	Select  string `yaml:"select"`
	Confirm string `yaml:"confirm"`
	Quit    string `yaml:"quit"`
}

type DownloadTranslations struct {
	Resolving   string `yaml:"resolving"`
	Downloading string `yaml:"downloading"`
	Completed   string `yaml:"completed"`
	Failed      string `yaml:"failed"`
	Cancelled   string `yaml:"cancelled"`
	Progress    string `yaml:"progress"`
	Speed       string `yaml:"speed"`
	ETA         string `yaml:"eta"`
	Elapsed     string `yaml:"elapsed"`
	AvgSpeed    string `yaml:"avg_speed"`
	FileSaved   string `yaml:"file_saved"`
	Attempts    string `yaml:"attempts"`
	RateLimited string `yaml:"rate_limited"`
	CancelHint  string `yaml:"cancel_hint"`
}

type InfoTranslations struct {
	Title          string `yaml:"title"`
	Views          string `yaml:"views"`
	Length         string `yaml:"length"`
	Uploader       string `yaml:"uploader"`
	Formats        string `yaml:"formats"`
	SelectedFormat string `yaml:"selected_format"`
	NoFormats      string `yaml:"no_formats"`
}

type PromptTranslations struct {
	EnterURL       string `yaml:"enter_url"`
	EnterOutputDir string `yaml:"enter_output_dir"`
	OutputDirHint  string `yaml:"output_dir_hint"`
}

type ErrorTranslations struct {
	ConfigNotFound string `yaml:"config_not_found"`
	InvalidURL     string `yaml:"invalid_url"`
	RateLimited    string `yaml:"rate_limited"`
	NotFound       string `yaml:"not_found"`
	NetworkError   string `yaml:"network_error"`
	DownloadFailed string `yaml:"download_failed"`
}

var (
	translationsCache = make(map[string]*Translations)
	cacheMutex        sync.RWMutex
	defaultLang       = "en"
)

// SupportedLanguages returns all available language codes
var SupportedLanguages = []struct {
	Code string
	Name string
}{
	{"en", "English"},
	{"zh", "中文"},
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) *Translations {
	cacheMutex.RLock()
	if t, ok := translationsCache[lang]; ok {
		cacheMutex.RUnlock()
		return t
	}
	cacheMutex.RUnlock()

	t, err := loadTranslations(lang)
	if err != nil {
		// Fall back to English
		if lang != defaultLang {
			return GetTranslations(defaultLang)
		}
		return &Translations{}
	}

	cacheMutex.Lock()
	translationsCache[lang] = t
	cacheMutex.Unlock()

	return t
}

func loadTranslations(lang string) (*Translations, error) {
	filename := fmt.Sprintf("locales/%s.yml", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var t Translations
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// T is a convenience function for getting translations
func T(lang string) *Translations {
	return GetTranslations(lang)
}
