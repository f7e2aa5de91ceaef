package model

type LogStatus int

const (
	LogFound LogStatus = iota
	LogNotFound
	LogFailed
)

const (
	NoLogFilesFound    = "No log files found"
	NoRecentErrorsText = "No recent errors found."
)

// LogResult is the outcome of locating or reading a remote log file. Content
// is only meaningful for LogFound; Detail carries the failure text otherwise.
type LogResult struct {
	Status  LogStatus
	Content string
	Detail  string
}

func FoundLog(content string) LogResult {
	return LogResult{Status: LogFound, Content: content}
}

func MissingLog(detail string) LogResult {
	return LogResult{Status: LogNotFound, Detail: detail}
}

func FailedLog(detail string) LogResult {
	return LogResult{Status: LogFailed, Detail: detail}
}

func (r LogResult) Found() bool {
	return r.Status == LogFound
}

// String is the text shown in a report for this result.
func (r LogResult) String() string {
	switch r.Status {
	case LogFound:
		return r.Content
	case LogNotFound:
		return NoLogFilesFound
	default:
		return r.Detail
	}
}
