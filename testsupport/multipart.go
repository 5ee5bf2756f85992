package testsupport

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// Upload describes a file part for a multipart body.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// JPEG returns a small upload under the image field.
func JPEG(size int) Upload {
	data := bytes.Repeat([]byte{0xFF}, size)
	return Upload{Field: "image", Filename: "photo.jpg", ContentType: "image/jpeg", Data: data}
}

// MultipartBody encodes fields and files; it returns the body and the
// Content-Type header value.
func MultipartBody(fields map[string]string, files ...Upload) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// FileHeader builds a parsed *multipart.FileHeader for the given upload.
func FileHeader(u Upload) (*multipart.FileHeader, error) {
	body, contentType, err := MultipartBody(nil, u)
	if err != nil {
		return nil, err
	}
	_, params, err := parseBoundary(contentType)
	if err != nil {
		return nil, err
	}
	form, err := multipart.NewReader(body, params).ReadForm(32 << 20)
	if err != nil {
		return nil, err
	}
	files := form.File[u.Field]
	if len(files) == 0 {
		return nil, fmt.Errorf("no file under %q", u.Field)
	}
	return files[0], nil
}

func parseBoundary(contentType string) (string, string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", err
	}
	return mediaType, params["boundary"], nil
}
