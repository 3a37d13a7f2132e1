package api

// NoticeKind classifies a backend message for display.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is the tagged form of a backend envelope message. It is constructed
// exactly once, at the client boundary, so view code never re-implements the
// danger > warning > success precedence rule.
type Notice struct {
	Kind NoticeKind
	Text string
}

// message is the raw envelope message body. The backend sets exactly one of
// the three keys; danger wins if several are present.
type message struct {
	Danger  string `json:"danger,omitempty"`
	Warning string `json:"warning,omitempty"`
	Success string `json:"success,omitempty"`
}

// notice applies the precedence rule: danger > warning > success.
func (m message) notice() Notice {
	switch {
	case m.Danger != "":
		return Notice{Kind: NoticeError, Text: m.Danger}
	case m.Warning != "":
		return Notice{Kind: NoticeWarning, Text: m.Warning}
	default:
		return Notice{Kind: NoticeSuccess, Text: m.Success}
	}
}
