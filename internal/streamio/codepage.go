package streamio

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// UTF16 little-endian text used by wide-string sections
var UTF16 encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

var codePages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
	"DOS437":    charmap.CodePage437,
	"DOS850":    charmap.CodePage850,
	"DOS866":    charmap.CodePage866,
	"ISO8859-1": charmap.ISO8859_1,
	"UTF-8":     unicode.UTF8,
	"UTF8":      unicode.UTF8,
}

// CodePage maps a $DWGCODEPAGE name to an encoding, unknown names fall back to ANSI_1252.
func CodePage(name string) (encoding.Encoding, bool) {
	enc, ok := codePages[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return charmap.Windows1252, false
	}
	return enc, true
}
