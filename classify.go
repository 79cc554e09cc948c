package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// heuristicSampleSize bounds the content read used by the last-resort stage.
const heuristicSampleSize = 4096

// signatureReadSize bounds the prefix read used for magic-number sniffing.
const signatureReadSize = 64

// knownTextExts maps lower-cased, dot-less extensions that are always text.
// An optional languages.yml supplies extra text extensions per run via
// RunConfig (see language.go); this table itself is never mutated.
var knownTextExts = map[string]struct{}{
	"txt": {}, "md": {}, "markdown": {}, "rst": {}, "org": {},
	"go": {}, "rs": {}, "py": {}, "rb": {}, "js": {}, "mjs": {}, "ts": {},
	"jsx": {}, "tsx": {}, "java": {}, "kt": {}, "scala": {}, "c": {},
	"h": {}, "cpp": {}, "cc": {}, "cxx": {}, "hpp": {}, "cs": {}, "php": {},
	"pl": {}, "pm": {}, "lua": {}, "sh": {}, "bash": {}, "zsh": {},
	"fish": {}, "ps1": {}, "bat": {}, "swift": {}, "m": {}, "mm": {},
	"r": {}, "jl": {}, "ex": {}, "exs": {}, "erl": {}, "hs": {}, "ml": {},
	"clj": {}, "lisp": {}, "el": {}, "vim": {}, "zig": {}, "nim": {},
	"d": {}, "dart": {}, "groovy": {}, "sql": {},
	"html": {}, "htm": {}, "xhtml": {}, "xml": {}, "svg": {}, "css": {},
	"scss": {}, "sass": {}, "less": {},
	"json": {}, "jsonc": {}, "json5": {}, "yaml": {}, "yml": {},
	"toml": {}, "ini": {}, "cfg": {}, "conf": {}, "properties": {},
	"env": {}, "editorconfig": {}, "gitignore": {}, "gitattributes": {},
	"dockerfile": {}, "makefile": {}, "mk": {}, "cmake": {},
	"gradle": {}, "proto": {}, "graphql": {}, "tf": {}, "hcl": {},
	"csv": {}, "tsv": {}, "log": {}, "diff": {}, "patch": {}, "tex": {},
	"bib": {}, "adoc": {}, "textile": {}, "lock": {}, "mod": {}, "sum": {},
}

// knownBinaryExts maps extensions that are always binary. Hitting this table
// skips the content stages entirely.
var knownBinaryExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "ico": {},
	"tif": {}, "tiff": {}, "webp": {}, "heic": {}, "psd": {},
	"mp3": {}, "mp4": {}, "m4a": {}, "aac": {}, "ogg": {}, "oga": {},
	"flac": {}, "wav": {}, "avi": {}, "mkv": {}, "mov": {}, "webm": {},
	"wmv": {}, "flv": {},
	"zip": {}, "tar": {}, "gz": {}, "tgz": {}, "bz2": {}, "xz": {},
	"zst": {}, "7z": {}, "rar": {}, "jar": {}, "war": {},
	"exe": {}, "dll": {}, "so": {}, "dylib": {}, "a": {}, "o": {},
	"obj": {}, "lib": {}, "bin": {}, "img": {}, "iso": {}, "dmg": {},
	"class": {}, "pyc": {}, "pyo": {}, "wasm": {},
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {},
	"pptx": {}, "odt": {}, "ods": {},
	"ttf": {}, "otf": {}, "woff": {}, "woff2": {}, "eot": {},
	"db": {}, "sqlite": {}, "sqlite3": {}, "mdb": {},
}

// binarySignatures is the ordered magic-number table consulted for unknown
// extensions. First matching prefix wins.
var binarySignatures = [][]byte{
	{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, // PNG
	{0xFF, 0xD8, 0xFF},                      // JPEG
	[]byte("GIF87a"),                        // GIF
	[]byte("GIF89a"),                        // GIF
	[]byte("BM"),                            // BMP
	[]byte("%PDF"),                          // PDF
	{'P', 'K', 0x03, 0x04},                  // ZIP (and jar/docx/...)
	{'P', 'K', 0x05, 0x06},                  // empty ZIP
	{0x1F, 0x8B},                            // GZIP
	[]byte("BZh"),                           // BZIP2
	{0xFD, '7', 'z', 'X', 'Z', 0x00},        // XZ
	{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C},      // 7-Zip
	[]byte("Rar!"),                          // RAR
	{0x7F, 'E', 'L', 'F'},                   // ELF
	{0xFE, 0xED, 0xFA, 0xCE},                // Mach-O 32-bit
	{0xFE, 0xED, 0xFA, 0xCF},                // Mach-O 64-bit
	{0xCF, 0xFA, 0xED, 0xFE},                // Mach-O little-endian
	[]byte("MZ"),                            // DOS/PE executable
	{0xCA, 0xFE, 0xBA, 0xBE},                // Java class / fat Mach-O
	{0x00, 'a', 's', 'm'},                   // WASM
	[]byte("OggS"),                          // OGG container
	[]byte("RIFF"),                          // RIFF (wav/avi/webp)
	[]byte("fLaC"),                          // FLAC
	[]byte("ID3"),                           // MP3 with ID3 tag
	[]byte("SQLite format 3\x00"),           // SQLite database
}

// classify decides text/binary/skip for one entry. The stage order is fixed:
// size gate, extension table, signature sniffing, content heuristic. Stages
// after the gate perform bounded reads only; the full content read for output
// happens in the executor, not here.
func classify(entry FileEntry, cfg *RunConfig) ClassificationResult {
	if entry.Size > cfg.MaxSize {
		return ClassificationResult{Entry: entry, Kind: KindTooLarge}
	}

	switch classifyByExtension(entry.RelPath, cfg.ExtraTextExts) {
	case KindText:
		return ClassificationResult{Entry: entry, Kind: KindText}
	case KindBinary:
		return ClassificationResult{Entry: entry, Kind: KindBinary}
	}

	sample, err := readSample(entry.AbsPath, heuristicSampleSize)
	if err != nil {
		return ClassificationResult{Entry: entry, Kind: KindError, Err: err}
	}
	if matchesBinarySignature(sample) {
		return ClassificationResult{Entry: entry, Kind: KindBinary}
	}
	if looksBinary(sample) {
		return ClassificationResult{Entry: entry, Kind: KindBinary}
	}
	return ClassificationResult{Entry: entry, Kind: KindText}
}

// classifyByExtension consults the static tables plus the run's extra text
// extensions (languages.yml). The binary table wins over the extra set, so a
// languages.yml entry can never demote a known-binary extension. KindError
// doubles as the "no decision" return here since it can never be produced by
// a table hit.
func classifyByExtension(name string, extraText map[string]struct{}) FileKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		// Well-known extension-less files.
		switch strings.ToLower(filepath.Base(name)) {
		case "makefile", "dockerfile", "rakefile", "gemfile", "license", "readme":
			return KindText
		}
		return KindError
	}
	if _, ok := knownTextExts[ext]; ok {
		return KindText
	}
	if _, ok := knownBinaryExts[ext]; ok {
		return KindBinary
	}
	if _, ok := extraText[ext]; ok {
		return KindText
	}
	return KindError
}

// readSample reads at most n bytes from the start of the file.
func readSample(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:read], nil
}

func matchesBinarySignature(sample []byte) bool {
	prefix := sample
	if len(prefix) > signatureReadSize {
		prefix = prefix[:signatureReadSize]
	}
	for _, sig := range binarySignatures {
		if bytes.HasPrefix(prefix, sig) {
			return true
		}
	}
	return false
}

// looksBinary is the last-resort heuristic over a bounded sample. A NUL byte
// anywhere in the sample decides binary. Otherwise the non-printable fraction
// is compared against a threshold that shrinks monotonically with sample size:
// a handful of control bytes in a tiny sample is not evidence of binary data,
// but the same fraction sustained over 4 KiB is.
func looksBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	suspect := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if !isPrintableByte(b) {
			suspect++
		}
	}

	return float64(suspect)/float64(len(sample)) > binaryThreshold(len(sample))
}

// binaryThreshold returns the tolerated non-printable fraction for a sample
// of n bytes. It decays linearly from 0.30 (tiny samples) to 0.10 at 512
// bytes and beyond; the curve is a tunable, monotonicity is the contract.
func binaryThreshold(n int) float64 {
	const (
		floor  = 0.10
		ceil   = 0.30
		window = 512.0
	)
	if n >= int(window) {
		return floor
	}
	return ceil - (ceil-floor)*float64(n)/window
}

// isPrintableByte mirrors the reference heuristic: bytes >= 0x20 plus common
// whitespace controls count as text. High bytes pass since UTF-8 multibyte
// sequences are all >= 0x80.
func isPrintableByte(b byte) bool {
	return b >= 0x20 || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b == 0x0B
}
