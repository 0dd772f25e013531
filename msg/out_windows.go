// +build windows

package msg

// The color codes here are for compatibility with how Colors are used.
// Windows colors have not been implemented yet.
const (
	Blue   = ""
	Red    = ""
	Green  = ""
	Yellow = ""
	Cyan   = ""
	Pink   = ""
)

// Color on windows returns no color.
func (m *Messenger) Color(code, msg string) string {
	return msg
}
