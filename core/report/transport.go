package report

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
)

// ErrTransport indicates that a payload could not be base64-decoded or gunzipped.
var ErrTransport = errors.New("malformed transport payload")

var (
	fromURLSafe = strings.NewReplacer("-", "+", "_", "/")
	toURLSafe   = strings.NewReplacer("+", "-", "/", "_")
)

// DecodeTransport decodes a base64url payload (padding optional) and
// decompresses the enclosed gzip member.
func DecodeTransport(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(ErrTransport, "empty payload")
	}
	s = fromURLSafe.Replace(s)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "base64: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "gzip: %v", err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer zr.Close()
	data, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "gzip: %v", err)
	}
	return data, nil
}

// EncodeTransport gzips data and encodes it as an unpadded base64url string,
// safe for URL query parameters. DecodeTransport(EncodeTransport(b)) == b.
func EncodeTransport(data []byte) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", errors.Wrap(err, "compressing payload")
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "compressing payload")
	}
	s := base64.StdEncoding.EncodeToString(buf.Bytes())
	return strings.TrimRight(toURLSafe.Replace(s), "="), nil
}
