package log

const (
	// FldFile is the name of the log field for storing file name information
	FldFile = "file"
	// FldPath is the name of the log field for storing path name information
	FldPath = "path"
	// FldTransport is the name of the log field for storing a transport name
	FldTransport = "transport"
	// FldSession is the name of the log field for storing the session ID
	FldSession = "session"
	// FldVersion is the version number of the application
	FldVersion = "ver"
	// FldEvent is the ID of the event used in the log entry
	FldEvent = "event"
	// FldPhone is the participant phone number used in the log entry
	FldPhone = "phone"
	// FldKind is the notification kind (reminder or feedback request)
	FldKind = "kind"
	// FldKey is the storage key used in the log entry
	FldKey = "key"
	// FldSearch is a search term used in a search
	FldSearch = "search"
	// FldOffset is the requested offset value in a search
	FldOffset = "offset"
	// FldLimit is the requested result limit in a search
	FldLimit = "limit"
)
