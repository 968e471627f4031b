package imgutil

import (
	"encoding/base64"
	"testing"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	pngData := createDummyImageData(t, "png", 4, false)
	payload := base64.StdEncoding.EncodeToString(pngData)

	t.Run("data URI からMIMEタイプとデータを取り出す", func(t *testing.T) {
		data, mimeType, err := DecodeDataURI(domain.ImageRef("data:image/webp;base64," + payload))

		require.NoError(t, err)
		assert.Equal(t, "image/webp", mimeType)
		assert.Equal(t, pngData, data)
	})

	t.Run("素のbase64は内容からMIMEタイプを推定する", func(t *testing.T) {
		data, mimeType, err := DecodeDataURI(domain.ImageRef(payload))

		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, pngData, data)
	})

	t.Run("異常系", func(t *testing.T) {
		cases := map[string]domain.ImageRef{
			"空":          "",
			"カンマなし":       "data:image/png;base64",
			"base64以外":    "data:text/plain,hello",
			"不正なbase64":   "data:image/png;base64,@@@",
			"空のペイロード": "data:image/png;base64,",
		}
		for name, ref := range cases {
			_, _, err := DecodeDataURI(ref)
			assert.Error(t, err, name)
		}
	})
}

func TestEncodeDataURI(t *testing.T) {
	ref := EncodeDataURI([]byte("abc"), "")
	assert.Equal(t, domain.ImageRef("data:image/png;base64,YWJj"), ref)

	data, mimeType, err := DecodeDataURI(EncodeDataURI([]byte("abc"), "image/jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte("abc"), data)
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", DetectMIMEType(createDummyImageData(t, "png", 2, false)))
	assert.Equal(t, "image/jpeg", DetectMIMEType(createDummyImageData(t, "jpeg", 2, false)))
	assert.Equal(t, DefaultMIMEType, DetectMIMEType([]byte("plain text")))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".webp", Extension("image/webp"))
	assert.Equal(t, ".png", Extension("image/png"))
	assert.Equal(t, ".png", Extension(""))
}
