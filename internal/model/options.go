package model

import "time"

// Selector names which content source a run targets. Exactly one is set.
type Selector string

const (
	SelectorCreator Selector = "uid"
	SelectorPost    Selector = "bvid"
	SelectorSeries  Selector = "epid"
	SelectorList    Selector = "from-list"
)

// CLIOptions holds user-configurable runtime options as parsed from flags.
type CLIOptions struct {
	Selector Selector
	Target   string // uid, bvid, ep_id or list file path depending on Selector
	Num      int    // episodes to take when Selector is SelectorSeries
	Begin    int    // 0-based offset into the identifier list

	Quality      QualitySelector
	DownloadAddr string // always ends with a path separator

	ConfigPath string
	FFmpegPath string
	Timeout    time.Duration
	Interval   time.Duration

	Verbose bool
	LogJSON bool
	NoUI    bool
}
