/*
 * compress.go, part of gostruct.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chemfile

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/gostruct"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// compressionSuffixes are stripped from file names before resolving the format.
var compressionSuffixes = []string{".gz", ".zst"}

// stripCompression returns path without a trailing compression suffix, and the suffix.
func stripCompression(path string) (string, string) {
	lower := strings.ToLower(path)
	for _, s := range compressionSuffixes {
		if strings.HasSuffix(lower, s) && len(path) > len(s) {
			return path[:len(path)-len(s)], s
		}
	}
	return path, ""
}

// Decompress returns data uncompressed if it starts with the gzip or zstd
// magic bytes, and data unchanged otherwise.
func Decompress(data []byte) ([]byte, error) {
	var r io.Reader
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "gzip header"), "Decompress")
		}
		defer gr.Close()
		r = gr
	case bytes.HasPrefix(data, zstdMagic):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "zstd header"), "Decompress")
		}
		defer zr.Close()
		r = zr
	default:
		return data, nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "compressed stream"), "Decompress")
	}
	return out, nil
}

// Compress compresses data with gzip or zstd if path ends in .gz or .zst.
// Otherwise data is returned unchanged.
func Compress(data []byte, path string) ([]byte, error) {
	_, suffix := stripCompression(filepath.Base(path))
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch suffix {
	case ".gz":
		w, err = gzip.NewWriterLevel(&buf, gzip.BestCompression)
	case ".zst":
		w, err = zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		return data, nil
	}
	if err != nil {
		return nil, errDecorate(err, "Compress")
	}
	if _, err = w.Write(data); err != nil {
		w.Close()
		return nil, errDecorate(err, "Compress")
	}
	if err = w.Close(); err != nil {
		return nil, errDecorate(err, "Compress")
	}
	return buf.Bytes(), nil
}
