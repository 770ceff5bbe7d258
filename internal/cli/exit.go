package cli

import (
	"errors"

	"github.com/furkhad/youtube/internal/core/downloader"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
)

// Process exit codes
const (
	ExitOK           = 0
	ExitOther        = 1
	ExitInvalidInput = 2
	ExitRateLimited  = 3
	ExitNotFound     = 4
	ExitNetwork      = 5
)

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch kindOf(err) {
	case extractor.KindInvalidInput:
		return ExitInvalidInput
	case extractor.KindRateLimited:
		return ExitRateLimited
	case extractor.KindNotFound:
		return ExitNotFound
	case extractor.KindNetwork:
		return ExitNetwork
	default:
		return ExitOther
	}
}

func kindOf(err error) extractor.ErrorKind {
	var failure *downloader.Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	return extractor.KindOf(err)
}

// describe returns the translated heading for err
func describe(t *i18n.Translations, err error) string {
	switch kindOf(err) {
	case extractor.KindInvalidInput:
		return t.Errors.InvalidURL
	case extractor.KindRateLimited:
		return t.Errors.RateLimited
	case extractor.KindNotFound:
		return t.Errors.NotFound
	case extractor.KindNetwork:
		return t.Errors.NetworkError
	default:
		return t.Errors.DownloadFailed
	}
}
