package parser

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RTFParser handles Rich Text Format files. Formatting, embedded objects and
// table destinations are dropped; paragraph and line breaks become newlines.
type RTFParser struct{}

func (p *RTFParser) Parse(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte(`{\rtf`)) {
		return "", errors.New("missing rtf header")
	}
	return rtfToText(string(data)), nil
}

// rtfDestinations are groups whose content is never document text.
var rtfDestinations = map[string]bool{
	"aftncn": true, "aftnsep": true, "aftnsepc": true, "annotation": true,
	"atnauthor": true, "atndate": true, "atnicn": true, "atnid": true,
	"atnparent": true, "atnref": true, "atntime": true, "atrfend": true,
	"atrfstart": true, "author": true, "background": true, "bkmkend": true,
	"bkmkstart": true, "buptim": true, "category": true, "colorschememapping": true,
	"colortbl": true, "comment": true, "company": true, "creatim": true,
	"datafield": true, "datastore": true, "defchp": true, "defpap": true,
	"do": true, "doccomm": true, "docvar": true, "dptxbxtext": true,
	"ebcend": true, "ebcstart": true, "factoidname": true, "falt": true,
	"fchars": true, "ffdeftext": true, "ffentrymcr": true, "ffexitmcr": true,
	"ffformat": true, "ffhelptext": true, "ffl": true, "ffname": true,
	"ffstattext": true, "file": true, "filetbl": true,
	"fldinst": true, "fldtype": true, "fname": true, "fontemb": true,
	"fontfile": true, "fonttbl": true, "footer": true, "footerf": true,
	"footerl": true, "footerr": true, "footnote": true, "formfield": true,
	"ftncn": true, "ftnsep": true, "ftnsepc": true, "g": true,
	"generator": true, "gridtbl": true, "header": true, "headerf": true,
	"headerl": true, "headerr": true, "hl": true, "hlfr": true,
	"hlinkbase": true, "hlloc": true, "hlsrc": true, "hsv": true,
	"htmltag": true, "info": true, "keycode": true, "keywords": true,
	"latentstyles": true, "lchars": true, "levelnumbers": true, "leveltext": true,
	"lfolevel": true, "linkval": true, "list": true, "listlevel": true,
	"listname": true, "listoverride": true, "listoverridetable": true, "listpicture": true,
	"liststylename": true, "listtable": true, "listtext": true, "lsdlockedexcept": true,
	"macc": true, "maccPr": true, "mailmerge": true, "manager": true,
	"mmaddfieldname": true, "mmconnectstr": true, "mmconnectstrdata": true, "mmdatasource": true,
	"mmheadersource": true, "mmmailsubject": true, "mmodso": true, "mmodsofilter": true,
	"mmodsofldmpdata": true, "mmodsomappedname": true, "mmodsoname": true, "mmodsorecipdata": true,
	"mmodsosort": true, "mmodsosrc": true, "mmodsotable": true, "mmodsoudl": true,
	"mmodsoudldata": true, "mmodsouniquetag": true, "mmquery": true, "mmreccur": true,
	"nesttableprops": true, "nextfile": true, "nonesttables": true, "objalias": true,
	"objclass": true, "objdata": true, "object": true, "objname": true,
	"objsect": true, "objtime": true, "oldcprops": true, "oldpprops": true,
	"oldsprops": true, "oldtprops": true, "oleclsid": true, "operator": true,
	"panose": true, "password": true, "passwordhash": true, "pgp": true,
	"pgptbl": true, "picprop": true, "pict": true, "pn": true,
	"pnseclvl": true, "pntext": true, "pntxta": true, "pntxtb": true,
	"printim": true, "private": true, "propname": true, "protend": true,
	"protstart": true, "protusertbl": true, "pxe": true, "result": true,
	"revtbl": true, "revtim": true, "rsidtbl": true, "rxe": true,
	"shp": true, "shpgrp": true, "shpinst": true, "shppict": true,
	"shprslt": true, "shptxt": true, "sn": true, "sp": true,
	"staticval": true, "stylesheet": true, "subject": true, "sv": true,
	"svb": true, "tc": true, "template": true, "themedata": true,
	"title": true, "txe": true, "ud": true, "upr": true,
	"userprops": true, "wgrffmtfilter": true, "windowcaption": true, "writereservation": true,
	"writereservhash": true, "xe": true, "xform": true, "xmlattrname": true,
	"xmlattrvalue": true, "xmlclose": true, "xmlname": true, "xmlnstbl": true,
	"xmlopen": true,
}

var rtfSpecials = map[string]string{
	"par":       "\n",
	"line":      "\n",
	"sect":      "\n",
	"page":      "\n",
	"row":       "\n",
	"tab":       "\t",
	"cell":      "\t",
	"emdash":    "—",
	"endash":    "–",
	"emspace":   " ",
	"enspace":   " ",
	"qmspace":   " ",
	"bullet":    "•",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
}

var rtfCodePages = map[int]*charmap.Charmap{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
}

type rtfGroup struct {
	ignorable bool
	ucskip    int
}

// rtfToText is a single-pass RTF reader. It tracks the group stack, the
// ignorable-destination flag and the \uc fallback count.
func rtfToText(doc string) string {
	src := []rune(doc)
	var out strings.Builder

	cur := rtfGroup{ucskip: 1}
	var stack []rtfGroup
	codepage := charmap.Windows1252
	pendingSkip := 0
	var high rune // UTF-16 high surrogate waiting for its \u pair

	flushHigh := func() {
		if high != 0 && !cur.ignorable {
			out.WriteRune(utf8.RuneError)
		}
		high = 0
	}
	emit := func(s string) {
		if pendingSkip > 0 {
			pendingSkip--
			return
		}
		flushHigh()
		if !cur.ignorable {
			out.WriteString(s)
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '{':
			stack = append(stack, cur)
			pendingSkip = 0
			i++
			continue
		case '}':
			if len(stack) > 0 {
				cur = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
			pendingSkip = 0
			i++
			continue
		case '\r', '\n':
			i++
			continue
		case '\\':
		default:
			emit(string(c))
			i++
			continue
		}

		// Control symbol or control word.
		i++
		if i >= len(src) {
			break
		}
		c = src[i]
		if !isASCIILetter(c) {
			i++
			switch c {
			case '\\', '{', '}':
				emit(string(c))
			case '~':
				emit("\u00a0")
			case '_':
				emit("-")
			case '-':
				// optional hyphen
			case '*':
				cur.ignorable = true
			case '\r', '\n':
				emit("\n")
			case '\'':
				if i+2 <= len(src) {
					if b, err := strconv.ParseUint(string(src[i:i+2]), 16, 8); err == nil {
						emit(string(codepage.DecodeByte(byte(b))))
						i += 2
					}
				}
			}
			continue
		}

		start := i
		for i < len(src) && isASCIILetter(src[i]) {
			i++
		}
		word := string(src[start:i])

		hasParam := false
		param := 0
		pstart := i
		if i < len(src) && src[i] == '-' {
			i++
		}
		for i < len(src) && src[i] >= '0' && src[i] <= '9' {
			i++
		}
		if i > pstart && !(i == pstart+1 && src[pstart] == '-') {
			if n, err := strconv.Atoi(string(src[pstart:i])); err == nil {
				hasParam = true
				param = n
			}
		} else {
			i = pstart
		}
		if i < len(src) && src[i] == ' ' {
			i++
		}

		switch {
		case word == "bin" && hasParam:
			i += param
			if i > len(src) {
				i = len(src)
			}
		case word == "ansicpg" && hasParam:
			if cm, ok := rtfCodePages[param]; ok {
				codepage = cm
			}
		case word == "uc" && hasParam:
			cur.ucskip = param
		case word == "u" && hasParam:
			if param < 0 {
				param += 0x10000
			}
			r := rune(param)
			if r >= 0xD800 && r < 0xDC00 {
				flushHigh()
				high = r
			} else {
				if high != 0 {
					r = utf16.DecodeRune(high, r)
					high = 0
				}
				if !cur.ignorable {
					out.WriteRune(r)
				}
			}
			pendingSkip = cur.ucskip
		case rtfDestinations[word]:
			cur.ignorable = true
		default:
			if s, ok := rtfSpecials[word]; ok {
				emit(s)
			}
		}
	}
	flushHigh()
	return out.String()
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
}
