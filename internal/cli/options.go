// Package cli turns raw flag values into validated run options.
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	str2duration "github.com/xhit/go-str2duration/v2"

	"bilicrawl/internal/dirs"
	"bilicrawl/internal/model"
	"bilicrawl/internal/util"
)

// ErrNoSelector is returned when none of the selector flags is set.
var ErrNoSelector = errors.New("please specify the uid or bvid or epid (or --from-list)")

// ErrManySelectors is returned when more than one selector flag is set.
var ErrManySelectors = errors.New("--uid, --bvid, --epid and --from-list are mutually exclusive")

// RawFlags are flag values as typed by the user, after config/env merging.
type RawFlags struct {
	UID      string
	BVID     string
	EPID     string
	FromList string

	Num   int `validate:"gte=1"`
	Begin int `validate:"gte=0"`

	QualityV     string
	QualityA     string
	DownloadAddr string `validate:"required"`
	ConfigPath   string
	FFmpeg       string

	Timeout  string
	Interval string

	Verbose bool
	LogJSON bool
	NoUI    bool
}

var validate = validator.New()

// ParseOptions validates raw and builds the run options. Every error it
// returns is a usage error.
func ParseOptions(raw RawFlags) (model.CLIOptions, error) {
	usage := func(err error) (model.CLIOptions, error) {
		return model.CLIOptions{}, model.NewError(model.KindUsage, "parse flags", err)
	}

	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return usage(describe(verrs))
		}
		return usage(err)
	}

	sel, target, err := pickSelector(raw)
	if err != nil {
		return usage(err)
	}

	timeout, err := parseDuration("timeout", raw.Timeout)
	if err != nil {
		return usage(err)
	}
	interval, err := parseDuration("interval", raw.Interval)
	if err != nil {
		return usage(err)
	}

	return model.CLIOptions{
		Selector:     sel,
		Target:       target,
		Num:          raw.Num,
		Begin:        raw.Begin,
		Quality:      model.QualitySelector{Video: strings.TrimSpace(raw.QualityV), Audio: strings.TrimSpace(raw.QualityA)},
		DownloadAddr: dirs.NormalizeBase(raw.DownloadAddr),
		ConfigPath:   raw.ConfigPath,
		FFmpegPath:   raw.FFmpeg,
		Timeout:      timeout,
		Interval:     interval,
		Verbose:      raw.Verbose,
		LogJSON:      raw.LogJSON,
		NoUI:         raw.NoUI,
	}, nil
}

func pickSelector(raw RawFlags) (model.Selector, string, error) {
	type candidate struct {
		sel       model.Selector
		value     string
		normalize func(string) (string, error)
	}
	all := []candidate{
		{model.SelectorCreator, raw.UID, util.NormalizeUID},
		{model.SelectorPost, raw.BVID, util.NormalizeBVID},
		{model.SelectorSeries, raw.EPID, util.NormalizeEPID},
		{model.SelectorList, raw.FromList, func(s string) (string, error) { return s, nil }},
	}

	var picked *candidate
	for i := range all {
		if strings.TrimSpace(all[i].value) == "" {
			continue
		}
		if picked != nil {
			return "", "", ErrManySelectors
		}
		picked = &all[i]
	}
	if picked == nil {
		return "", "", ErrNoSelector
	}
	target, err := picked.normalize(strings.TrimSpace(picked.value))
	if err != nil {
		return "", "", fmt.Errorf("--%s: %w", picked.sel, err)
	}
	return picked.sel, target, nil
}

// parseDuration accepts Go durations plus day and week units ("1d2h").
// Empty means zero.
func parseDuration(name, s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid --%s %q: must not be negative", name, s)
	}
	return d, nil
}

func describe(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Num":
			msgs = append(msgs, fmt.Sprintf("--num must be at least 1 (got %v)", fe.Value()))
		case "Begin":
			msgs = append(msgs, fmt.Sprintf("--begin must not be negative (got %v)", fe.Value()))
		case "DownloadAddr":
			msgs = append(msgs, "--download_addr must not be empty")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
