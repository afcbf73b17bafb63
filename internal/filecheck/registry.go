package filecheck

import (
	"bytes"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

// HeadSize is how many leading bytes the validator inspects.
const HeadSize = 16

// Segment is a byte sequence expected at Offset.
type Segment struct {
	Offset int
	Bytes  []byte
}

// Signature matches when every segment matches.
type Signature []Segment

func (s Signature) match(head []byte) bool {
	for _, seg := range s {
		end := seg.Offset + len(seg.Bytes)
		if end > len(head) || !bytes.Equal(head[seg.Offset:end], seg.Bytes) {
			return false
		}
	}
	return len(s) > 0
}

func at0(b ...byte) Signature           { return Signature{{Offset: 0, Bytes: b}} }
func str0(s string) Signature           { return Signature{{Offset: 0, Bytes: []byte(s)}} }
func strAt(off int, s string) Signature { return Signature{{Offset: off, Bytes: []byte(s)}} }
func riff(form string) Signature        { return Signature{{0, []byte("RIFF")}, {8, []byte(form)}} }

var (
	sigJPEG = []Signature{at0(0xFF, 0xD8, 0xFF)}
	sigTIFF = []Signature{at0(0x49, 0x49, 0x2A, 0x00), at0(0x4D, 0x4D, 0x00, 0x2A)}
	sigZIP  = []Signature{at0(0x50, 0x4B, 0x03, 0x04), at0(0x50, 0x4B, 0x05, 0x06), at0(0x50, 0x4B, 0x07, 0x08)}
	sigOLE2 = []Signature{at0(0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1)}
	sigMP4  = []Signature{strAt(4, "ftyp")}
	sigEBML = []Signature{at0(0x1A, 0x45, 0xDF, 0xA3)}
)

// signatures maps a lower-case extension to its accepted leading bytes.
// Extensions absent here (plain text formats) carry no magic number.
var signatures = map[string][]Signature{
	"jpg":  sigJPEG,
	"jpeg": sigJPEG,
	"png":  {at0(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)},
	"gif":  {str0("GIF87a"), str0("GIF89a")},
	"webp": {riff("WEBP")},
	"bmp":  {str0("BM")},
	"tif":  sigTIFF,
	"tiff": sigTIFF,
	"heic": {strAt(4, "ftypheic"), strAt(4, "ftypheix"), strAt(4, "ftypmif1"), strAt(4, "ftypmsf1")},

	"pdf":  {str0("%PDF-")},
	"docx": sigZIP,
	"xlsx": sigZIP,
	"pptx": sigZIP,
	"odt":  sigZIP,
	"ods":  sigZIP,
	"doc":  sigOLE2,
	"xls":  sigOLE2,
	"ppt":  sigOLE2,
	"rtf":  {str0(`{\rtf`)},

	"mp3":  {str0("ID3"), at0(0xFF, 0xFB), at0(0xFF, 0xF3), at0(0xFF, 0xF2)},
	"wav":  {riff("WAVE")},
	"ogg":  {str0("OggS")},
	"flac": {str0("fLaC")},
	"m4a":  sigMP4,

	"mp4":  sigMP4,
	"mov":  {strAt(4, "ftyp"), strAt(4, "moov"), strAt(4, "mdat"), strAt(4, "wide"), strAt(4, "free")},
	"webm": sigEBML,
	"mkv":  sigEBML,
	"avi":  {riff("AVI ")},

	"zip": sigZIP,
	"gz":  {at0(0x1F, 0x8B)},
	"7z":  {at0(0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C)},
}

// extensionCategories is the allow-list.
var extensionCategories = map[string]model.FileCategory{
	"jpg": model.CategoryImage, "jpeg": model.CategoryImage, "png": model.CategoryImage,
	"gif": model.CategoryImage, "webp": model.CategoryImage, "bmp": model.CategoryImage,
	"tif": model.CategoryImage, "tiff": model.CategoryImage, "heic": model.CategoryImage,

	"pdf": model.CategoryDocument, "doc": model.CategoryDocument, "docx": model.CategoryDocument,
	"xls": model.CategoryDocument, "xlsx": model.CategoryDocument, "ppt": model.CategoryDocument,
	"pptx": model.CategoryDocument, "odt": model.CategoryDocument, "ods": model.CategoryDocument,
	"rtf": model.CategoryDocument,

	"mp3": model.CategoryAudio, "wav": model.CategoryAudio, "ogg": model.CategoryAudio,
	"flac": model.CategoryAudio, "m4a": model.CategoryAudio,

	"mp4": model.CategoryVideo, "mov": model.CategoryVideo, "webm": model.CategoryVideo,
	"mkv": model.CategoryVideo, "avi": model.CategoryVideo,

	"zip": model.CategoryArchive, "gz": model.CategoryArchive, "7z": model.CategoryArchive,

	"txt": model.CategoryText, "csv": model.CategoryText, "json": model.CategoryText,
	"md": model.CategoryText, "xml": model.CategoryText,
}

// deniedExtensions are executables and scripts. Membership here always wins.
var deniedExtensions = map[string]struct{}{
	"exe": {}, "dll": {}, "com": {}, "bat": {}, "cmd": {}, "msi": {}, "msp": {},
	"scr": {}, "cpl": {}, "pif": {}, "sys": {}, "drv": {}, "ocx": {},
	"sh": {}, "bash": {}, "zsh": {}, "csh": {}, "ps1": {}, "psm1": {}, "psd1": {},
	"vbs": {}, "vbe": {}, "js": {}, "jse": {}, "wsf": {}, "wsh": {}, "hta": {},
	"jar": {}, "apk": {}, "app": {}, "dmg": {}, "deb": {}, "rpm": {}, "elf": {},
	"so": {}, "dylib": {}, "lnk": {}, "reg": {}, "php": {}, "py": {}, "pl": {},
	"rb": {}, "cgi": {}, "asp": {}, "aspx": {}, "jsp": {},
}

// mimeCategories maps exact MIME types; image/, audio/ and video/ prefixes
// are handled in categoryForMIME.
var mimeCategories = map[string]model.FileCategory{
	"application/pdf":    model.CategoryDocument,
	"application/msword": model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": model.CategoryDocument,
	"application/vnd.ms-excel":                       model.CategoryDocument,
	"application/vnd.ms-powerpoint":                  model.CategoryDocument,
	"application/vnd.oasis.opendocument.text":        model.CategoryDocument,
	"application/vnd.oasis.opendocument.spreadsheet": model.CategoryDocument,
	"application/rtf":                                model.CategoryDocument,
	"text/rtf":                                       model.CategoryDocument,

	"application/ogg": model.CategoryAudio,

	"application/zip":              model.CategoryArchive,
	"application/x-zip-compressed": model.CategoryArchive,
	"application/gzip":             model.CategoryArchive,
	"application/x-gzip":           model.CategoryArchive,
	"application/x-7z-compressed":  model.CategoryArchive,

	"text/plain":       model.CategoryText,
	"text/csv":         model.CategoryText,
	"text/markdown":    model.CategoryText,
	"text/xml":         model.CategoryText,
	"application/xml":  model.CategoryText,
	"application/json": model.CategoryText,
}

// Signatures returns the known signatures for ext (without the dot).
func Signatures(ext string) []Signature {
	return signatures[ext]
}

// Match reports whether ext has signatures defined and whether head matches one.
func Match(ext string, head []byte) (defined bool, matched bool) {
	sigs := signatures[ext]
	if len(sigs) == 0 {
		return false, false
	}
	for _, sig := range sigs {
		if sig.match(head) {
			return true, true
		}
	}
	return true, false
}

// CategoryForExtension returns the allow-listed category of ext.
func CategoryForExtension(ext string) (model.FileCategory, bool) {
	c, ok := extensionCategories[ext]
	return c, ok
}

// IsDenied reports whether ext is an executable or script extension.
func IsDenied(ext string) bool {
	_, ok := deniedExtensions[ext]
	return ok
}
