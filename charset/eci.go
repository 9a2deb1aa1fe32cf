// Package charset maps QR Extended Channel Interpretation (ECI) designators
// to text encodings and guesses the encoding of unlabelled byte segments.
package charset

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrFormatECI indicates an ECI designator outside the range 0..999999.
var ErrFormatECI = errors.New("charset: invalid ECI value")

// ECI is a character set designator carried in an ECI segment.
type ECI struct {
	Value    int
	Name     string
	Encoding encoding.Encoding
}

var ecis = []struct {
	values []int
	eci    ECI
}{
	{[]int{0, 2}, ECI{0, "IBM437", charmap.CodePage437}},
	{[]int{1, 3}, ECI{3, "ISO-8859-1", charmap.ISO8859_1}},
	{[]int{4}, ECI{4, "ISO-8859-2", charmap.ISO8859_2}},
	{[]int{5}, ECI{5, "ISO-8859-3", charmap.ISO8859_3}},
	{[]int{6}, ECI{6, "ISO-8859-4", charmap.ISO8859_4}},
	{[]int{7}, ECI{7, "ISO-8859-5", charmap.ISO8859_5}},
	{[]int{8}, ECI{8, "ISO-8859-6", charmap.ISO8859_6}},
	{[]int{9}, ECI{9, "ISO-8859-7", charmap.ISO8859_7}},
	{[]int{10}, ECI{10, "ISO-8859-8", charmap.ISO8859_8}},
	{[]int{11}, ECI{11, "ISO-8859-9", charmap.ISO8859_9}},
	{[]int{12}, ECI{12, "ISO-8859-10", charmap.ISO8859_10}},
	{[]int{13}, ECI{13, "ISO-8859-11", charmap.Windows874}},
	{[]int{15}, ECI{15, "ISO-8859-13", charmap.ISO8859_13}},
	{[]int{16}, ECI{16, "ISO-8859-14", charmap.ISO8859_14}},
	{[]int{17}, ECI{17, "ISO-8859-15", charmap.ISO8859_15}},
	{[]int{18}, ECI{18, "ISO-8859-16", charmap.ISO8859_16}},
	{[]int{20}, ECI{20, "Shift_JIS", japanese.ShiftJIS}},
	{[]int{21}, ECI{21, "windows-1250", charmap.Windows1250}},
	{[]int{22}, ECI{22, "windows-1251", charmap.Windows1251}},
	{[]int{23}, ECI{23, "windows-1252", charmap.Windows1252}},
	{[]int{24}, ECI{24, "windows-1256", charmap.Windows1256}},
	{[]int{25}, ECI{25, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}},
	{[]int{26}, ECI{26, "UTF-8", unicode.UTF8}},
	{[]int{27, 170}, ECI{27, "US-ASCII", charmap.Windows1252}},
	{[]int{28}, ECI{28, "Big5", traditionalchinese.Big5}},
	{[]int{29}, ECI{29, "GB18030", simplifiedchinese.GB18030}},
	{[]int{30}, ECI{30, "EUC-KR", korean.EUCKR}},
}

var (
	byValue = map[int]*ECI{}
	byName  = map[string]*ECI{}
)

func init() {
	for i := range ecis {
		e := &ecis[i].eci
		for _, v := range ecis[i].values {
			byValue[v] = e
		}
		byName[e.Name] = e
	}
	byName["SJIS"] = byName["Shift_JIS"]
	byName["UTF-16"] = &ECI{25, "UTF-16", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}
	byName["GBK"] = byName["GB18030"]
	byName["GB2312"] = byName["GB18030"]
}

// GetECIByValue returns the ECI registered under value. A valid but
// unregistered designator yields (nil, nil).
func GetECIByValue(value int) (*ECI, error) {
	if value < 0 || value > 999999 {
		return nil, fmt.Errorf("%w: %d", ErrFormatECI, value)
	}
	return byValue[value], nil
}

// GetECIByName returns the ECI for an encoding name such as "Shift_JIS".
func GetECIByName(name string) *ECI {
	return byName[name]
}

// DecodeBytes converts data from the named encoding to UTF-8. Unknown
// encodings and undecodable input are returned unchanged.
func DecodeBytes(data []byte, name string) string {
	e := GetECIByName(name)
	if e == nil || e.Encoding == unicode.UTF8 {
		return string(data)
	}
	out, err := e.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
