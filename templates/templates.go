package templates

import _ "embed"

var (
	//go:embed resource/hello.txt
	Hello string
	//go:embed resource/unexpectedError.txt
	UnexpectedError string
	//go:embed resource/importBound.txt
	ImportBound string
	//go:embed resource/updating.txt
	Updating string
	//go:embed resource/statusCreated.txt
	StatusCreated string
	//go:embed resource/statusMissing.txt
	StatusMissing string
	//go:embed resource/refreshDone.txt
	RefreshDone string
	//go:embed resource/refreshFailed.txt
	RefreshFailed string
	//go:embed resource/trackUsage.txt
	TrackUsage string
	//go:embed resource/trackSuccess.txt
	TrackSuccess string
	//go:embed resource/trackExists.txt
	TrackExists string
	//go:embed resource/untrackDone.txt
	UntrackDone string
	//go:embed resource/nowTracking.txt
	NowTracking string
	//go:embed resource/takeoff.txt
	Takeoff string
	//go:embed resource/landing.txt
	Landing string
	//go:embed resource/statusTitle.txt
	StatusTitle string
	//go:embed resource/noUpcoming.txt
	NoUpcoming string
	//go:embed resource/pendingStatus.txt
	PendingStatus string
	//go:embed resource/statusFooter.txt
	StatusFooter string
)
