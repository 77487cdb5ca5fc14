// Package gesture classifies hand landmarks into finger counts and named gestures.
package gesture

// Label is a named gesture. The zero value means no gesture was recognized.
type Label string

const (
	None       Label = ""
	Hello      Label = "hello"
	Bye        Label = "bye"
	ThumbsUp   Label = "thumbs-up"
	ThumbsDown Label = "thumbs-down"
	Namaskaar  Label = "namaskaar"
	Square     Label = "square"
	Rectangle  Label = "rectangle"
)

// String returns the label, or "none" for the zero value.
func (l Label) String() string {
	if l == None {
		return "none"
	}
	return string(l)
}

// Info is the display metadata the UI shows for a gesture.
// Classifiers never read it.
type Info struct {
	Label       Label  `json:"name"`
	Emoji       string `json:"emoji"`
	Friendly    string `json:"friendly"`
	Instruction string `json:"instruction"`
	Color       string `json:"color"`
}

// SocialSequence is the fixed order in which the social skills game asks for gestures.
var SocialSequence = []Label{Hello, ThumbsUp, ThumbsDown, Bye, Namaskaar}

// Catalog holds display metadata for the social gestures, in game order.
var Catalog = []Info{
	{
		Label:       Hello,
		Emoji:       "👋",
		Friendly:    "Hello! 👋",
		Instruction: "Raise one hand up once (palm visible) to say Hello",
		Color:       "from-blue-400 to-blue-600",
	},
	{
		Label:       ThumbsUp,
		Emoji:       "👍",
		Friendly:    "Great job! 👍",
		Instruction: "Point your thumb up with other fingers down",
		Color:       "from-green-400 to-green-600",
	},
	{
		Label:       ThumbsDown,
		Emoji:       "👎",
		Friendly:    "Nice try 👎",
		Instruction: "Point your thumb down with other fingers down",
		Color:       "from-red-400 to-red-600",
	},
	{
		Label:       Bye,
		Emoji:       "👋",
		Friendly:    "Bye! 👋",
		Instruction: "Wave one hand side-to-side for Bye",
		Color:       "from-purple-400 to-purple-600",
	},
	{
		Label:       Namaskaar,
		Emoji:       "🙏",
		Friendly:    "Namaskaar 🙏",
		Instruction: "Bring both hands together in front of your chest (Namaskaar)",
		Color:       "from-pink-400 to-pink-600",
	},
}

// Lookup returns the metadata for a label.
func Lookup(l Label) (Info, bool) {
	for _, info := range Catalog {
		if info.Label == l {
			return info, true
		}
	}
	return Info{}, false
}
