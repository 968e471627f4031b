package gateway

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/imgutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func noisyPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := rand.New(rand.NewSource(7))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestClient_ToImagePart(t *testing.T) {
	t.Run("圧縮なしでは入力をそのまま渡す", func(t *testing.T) {
		c := &Client{}

		part, err := c.toImagePart(designRef)

		require.NoError(t, err)
		assert.Equal(t, "image/png", part.InlineData.MIMEType)
		assert.Equal(t, validPNG, part.InlineData.Data)
	})

	t.Run("圧縮ありでは大きな画像をJPEGにする", func(t *testing.T) {
		c := &Client{compression: uploadCompression{enabled: true, quality: 40, minBytes: 1024}}
		data := noisyPNG(t, 96)

		part, err := c.toImagePart(imgutil.EncodeDataURI(data, "image/png"))

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", part.InlineData.MIMEType)
		assert.Less(t, len(part.InlineData.Data), len(data))
	})

	t.Run("画像以外のMIMEタイプは拒否する", func(t *testing.T) {
		_, err := (&Client{}).toImagePart("data:application/pdf;base64,JVBERi0=")
		assert.Error(t, err)
	})
}

func TestExtractImage(t *testing.T) {
	ctx := context.Background()

	t.Run("MIMEタイプがなければ image/png を使う", func(t *testing.T) {
		resp := imageResponse("", []byte("img"))

		ref := extractImage(ctx, OpEditImage, resp)

		assert.Equal(t, "data:image/png;base64,aW1n", ref.String())
	})

	t.Run("空のインラインデータは無視する", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{InlineData: &genai.Blob{MIMEType: "image/png"}},
				}},
			}},
		}

		assert.True(t, extractImage(ctx, OpEditImage, resp).IsZero())
	})

	t.Run("nil レスポンス", func(t *testing.T) {
		assert.True(t, extractImage(ctx, OpEditImage, nil).IsZero())
	})
}

func TestNewGenAIFactory(t *testing.T) {
	factory := NewGenAIFactory()

	gen, err := factory(context.Background(), credential.Credential{APIKey: "dummy-key"})

	require.NoError(t, err)
	assert.NotNil(t, gen)
}
