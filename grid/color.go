package grid

/*

Color tags

The registered colors and their one-character payload codes.  A
code must stay stable forever once released: payloads in the
wild refer to it.  Decoders drop codes they don't know instead
of failing, so adding a color is safe and removing one merely
orphans old tags.

*/

// colorCodes maps color names to their payload characters.
var colorCodes = map[string]byte{
	"red":    'r',
	"orange": 'o',
	"yellow": 'y',
	"green":  'g',
	"blue":   'b',
	"purple": 'p',
	"pink":   'i',
	"gray":   'a',
	"white":  'w',
	"black":  'k',
}

// codeColors is the reverse of colorCodes, built at init.
var codeColors = make(map[byte]string)

func init() {
	for name, code := range colorCodes {
		codeColors[code] = name
	}
}

// KnownColors returns the registered color names, in no
// particular order.
func KnownColors() []string {
	names := make([]string, 0, len(colorCodes))
	for name := range colorCodes {
		names = append(names, name)
	}
	return names
}

// IsKnownColor reports whether a name is a registered color.
func IsKnownColor(name string) bool {
	_, ok := colorCodes[name]
	return ok
}
