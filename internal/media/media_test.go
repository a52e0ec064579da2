package media

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestMaxSizeReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      []byte
		maxSize    int64
		wantN      int
		wantErrMsg string
	}{
		{name: "under the limit", input: []byte("hello"), maxSize: 10, wantN: 5},
		{name: "exactly the limit", input: []byte("hello"), maxSize: 5, wantN: 5},
		{name: "over the limit", input: []byte("hello world"), maxSize: 5, wantN: 5, wantErrMsg: "reach limit of 5 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reader := NewMaxSizeReader(bytes.NewReader(tt.input), tt.maxSize)
			buf := make([]byte, len(tt.input))
			n, err := reader.Read(buf)

			assert.Equal(t, tt.wantN, n)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				return
			}
			assert.True(t, err == nil || errors.Is(err, io.EOF))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "500 bytes", FormatBytes(500))
	assert.Equal(t, "2.00 KB", FormatBytes(2*1024))
	assert.Equal(t, "5.00 MB", FormatBytes(5<<20))
	assert.Equal(t, "4.00 GB", FormatBytes(4<<30))
}

func TestDetectImageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"png", pngHeader, "image/png", nil},
		{"jpeg", jpegHeader, "image/jpeg", nil},
		{"gif", gifHeader, "image/gif", nil},
		{"plain text", []byte("just some text"), "", ErrUnsupportedImageType},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`), "", ErrUnsupportedImageType},
		{"empty", nil, "", ErrEmptyImage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DetectImageType(tc.data)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadImage(t *testing.T) {
	t.Parallel()

	up, err := ReadImage(bytes.NewReader(pngHeader), "car.png", 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, "car.png", up.Filename)
	assert.Equal(t, pngHeader, up.Data)

	_, err = ReadImage(bytes.NewReader(pngHeader), "car.png", 4)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
