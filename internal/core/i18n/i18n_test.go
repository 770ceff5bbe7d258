package i18n

import "testing"

func TestTranslationsLoad(t *testing.T) {
	for _, lang := range SupportedLanguages {
		tr := T(lang.Code)
		if tr.Download.Completed == "" {
			t.Errorf("%s: download.completed is empty", lang.Code)
		}
		if tr.Download.Cancelled == "" {
			t.Errorf("%s: download.cancelled is empty", lang.Code)
		}
		if tr.Download.RateLimited == "" {
			t.Errorf("%s: download.rate_limited is empty", lang.Code)
		}
		if tr.Prompt.EnterURL == "" {
			t.Errorf("%s: prompt.enter_url is empty", lang.Code)
		}
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	got := T("xx").Download.Completed
	want := T("en").Download.Completed
	if got != want {
		t.Errorf("T(xx).Download.Completed = %q, want %q", got, want)
	}
}
