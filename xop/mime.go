package xop

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// Mime part defaults
const (
	rootPartContentType = "application/xop+xml"
	binaryContentType   = "application/octet-stream"
)

// IsMultipartRelated reports whether the content type denotes a multipart
// package
func IsMultipartRelated(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if nil != err {
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/")
	}
	return strings.HasPrefix(mediaType, "multipart/")
}

// Encode packages the serialized envelope and its binary parts as one
// multipart related mime body, returning the body and the outer content type
// carrying the boundary and root part coordinates
func Encode(root []byte, rootContentType string, parts []Part) ([]byte, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	boundary := "MIMEBoundary_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := writer.SetBoundary(boundary); nil != err {
		return nil, "", err
	}
	rootID := "root." + uuid.NewString() + "@gowsc"
	rootHeader := textproto.MIMEHeader{}
	rootHeader.Set("Content-Type", fmt.Sprintf("%s; charset=UTF-8; type=\"%s\"", rootPartContentType, rootContentType))
	rootHeader.Set("Content-Transfer-Encoding", "8bit")
	rootHeader.Set("Content-ID", "<"+rootID+">")
	partWriter, err := writer.CreatePart(rootHeader)
	if nil != err {
		return nil, "", err
	}
	if _, err = partWriter.Write(root); nil != err {
		return nil, "", err
	}
	for _, part := range parts {
		header := textproto.MIMEHeader{}
		contentType := part.ContentType
		if "" == contentType {
			contentType = binaryContentType
		}
		header.Set("Content-Type", contentType)
		header.Set("Content-Transfer-Encoding", "binary")
		header.Set("Content-ID", "<"+part.ContentID+">")
		partWriter, err = writer.CreatePart(header)
		if nil != err {
			return nil, "", err
		}
		if _, err = partWriter.Write(part.Content); nil != err {
			return nil, "", err
		}
	}
	if err = writer.Close(); nil != err {
		return nil, "", err
	}
	contentType := fmt.Sprintf("multipart/related; type=\"%s\"; start=\"<%s>\"; start-info=\"%s\"; boundary=\"%s\"",
		rootPartContentType, rootID, rootContentType, boundary)
	return buffer.Bytes(), contentType, nil
}

// Decode unpacks a multipart related mime body, separating the root document
// from the binary parts. The root part is located by the start parameter,
// falling back to the first part when the parameter is absent.
func Decode(contentType string, body []byte) ([]byte, string, []Part, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if nil != err {
		return nil, "", nil, err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, "", nil, fmt.Errorf("the content type [%s] is not a multipart package", mediaType)
	}
	boundary := params["boundary"]
	if "" == boundary {
		return nil, "", nil, errors.New("the multipart content type does not declare a boundary")
	}
	startID := strings.Trim(params["start"], "<>")
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	var root []byte
	rootContentType := ""
	rootFound := false
	first := true
	parts := []Part{}
	for {
		part, err := reader.NextPart()
		if io.EOF == err {
			break
		}
		if nil != err {
			return nil, "", nil, err
		}
		content, err := ioutil.ReadAll(part)
		if nil != err {
			return nil, "", nil, err
		}
		contentID := strings.Trim(part.Header.Get("Content-ID"), "<>")
		partContentType := part.Header.Get("Content-Type")
		isRoot := !rootFound && (("" != startID && contentID == startID) || ("" == startID && first))
		if isRoot {
			root = content
			rootContentType = partContentType
			rootFound = true
		} else {
			parts = append(parts, Part{ContentID: contentID, ContentType: partContentType, Content: content})
		}
		first = false
	}
	if !rootFound {
		return nil, "", nil, errors.New("the multipart package does not contain a root part")
	}
	return root, rootContentType, parts, nil
}
