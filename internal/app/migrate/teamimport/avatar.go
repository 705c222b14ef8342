package teamimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/objstore"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

const (
	AvatarSize    = 400
	avatarQuality = 85
	maxAvatarSize = 20 << 20

	nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	nameSuffix   = 5
)

// ErrUnsupportedImage is returned for images that are not png, jpeg or bmp.
var ErrUnsupportedImage = errors.New("unsupported avatar image format")

// Avatar is a resized image ready for upload.
type Avatar struct {
	Key         string
	URL         string
	ContentType string
	Body        []byte
}

// Avatars fetches legacy team images, crops them to a square and stores
// them as public objects under teams/avatars/.
type Avatars struct {
	client  *http.Client
	objects objstore.Store
	now     func() time.Time
}

func NewAvatars(client *http.Client, objects objstore.Store) *Avatars {
	if client == nil {
		client = http.DefaultClient
	}
	return &Avatars{client: client, objects: objects, now: time.Now}
}

// Prepare downloads rawURL and produces the avatar to upload. It returns
// ErrUnsupportedImage when the image cannot be decoded as png, jpeg or bmp.
func (a *Avatars) Prepare(ctx context.Context, rawURL string) (*Avatar, error) {
	src, format, err := a.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encode(Cover(src, AvatarSize, AvatarSize), format)
	if err != nil {
		return nil, err
	}
	name, err := a.fileName(format)
	if err != nil {
		return nil, err
	}
	key := objstore.TeamAvatarKey(name)
	return &Avatar{
		Key:         key,
		URL:         a.objects.PublicURL(key),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// Upload stores av with a public-read ACL.
func (a *Avatars) Upload(ctx context.Context, av *Avatar) error {
	err := a.objects.Put(ctx, av.Key, bytes.NewReader(av.Body), &objstore.PutOptions{
		ContentType: av.ContentType,
		Public:      true,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", av.Key, err)
	}
	return nil
}

func (a *Avatars) fetch(ctx context.Context, rawURL string) (image.Image, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("avatar url %q: %w", rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxAvatarSize))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupportedImage
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", u, err)
	}
	return img, format, nil
}

// fileName is <unix millis><5 lowercase alphanumerics>.<ext>.
func (a *Avatars) fileName(ext string) (string, error) {
	suffix, err := gonanoid.Generate(nameAlphabet, nameSuffix)
	if err != nil {
		return "", fmt.Errorf("avatar name: %w", err)
	}
	return strconv.FormatInt(a.now().UnixMilli(), 10) + suffix + "." + ext, nil
}

// Cover scales src so it fills w×h and crops the overflow evenly from both
// sides.
func Cover(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if sw == 0 || sh == 0 {
		return dst
	}

	// crop the largest centred region with the target aspect ratio
	cw, ch := sw, sh
	if sw*h > sh*w {
		cw = sh * w / h
	} else {
		ch = sw * h / w
	}
	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, image.Rect(x0, y0, x0+cw, y0+ch), xdraw.Src, nil)
	return dst
}

func encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	var contentType string
	var err error
	switch format {
	case "jpeg":
		contentType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: avatarQuality})
	case "png":
		contentType = "image/png"
		err = png.Encode(&buf, img)
	case "bmp":
		contentType = "image/bmp"
		err = bmp.Encode(&buf, img)
	default:
		return nil, "", ErrUnsupportedImage
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), contentType, nil
}
