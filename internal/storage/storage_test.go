package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMime(t *testing.T) {
	assert.Equal(t, MimePDF, DetectMime("cv.pdf", "application/octet-stream"))
	assert.Equal(t, MimeDocx, DetectMime("CV.DOCX", ""))
	assert.Equal(t, MimeText, DetectMime("cv.bin", "text/plain; charset=utf-8"))
	assert.Equal(t, "image/png", DetectMime("me.png", "image/png"))
}

func TestExtractResumeText(t *testing.T) {
	text, err := ExtractResumeText(MimeText, []byte("Go developer"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)

	_, err = ExtractResumeText("image/png", []byte{0x89})
	assert.EqualError(t, err, "unsupported file type: image/png")

	_, err = ExtractResumeText(MimePDF, []byte("not a pdf"))
	assert.Error(t, err)
}

func TestDocxPlainText(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "paragraphs",
			xml:  `<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Go &amp; SQL</w:t></w:r></w:p></w:body>`,
			want: "Jane Doe\nGo & SQL",
		},
		{
			name: "entities",
			xml:  `<w:p><w:r><w:t>R&amp;D lead, C++ &lt;5 yrs&gt; at AT&amp;T</w:t></w:r></w:p>`,
			want: "R&D lead, C++ <5 yrs> at AT&T",
		},
		{
			name: "tabs and breaks",
			xml:  `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Skills</w:t><w:tab/><w:t>Go</w:t><w:br/><w:t>Kubernetes</w:t></w:r></w:p>`,
			want: "Skills\tGo\nKubernetes",
		},
		{
			name: "text outside runs ignored",
			xml:  `<w:document>
  <w:body>
    <w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`,
			want: "Senior Engineer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := docxPlainText(tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMimeLabel(t *testing.T) {
	assert.Equal(t, MimePDF, mimeLabel(MimePDF))
	assert.Equal(t, MimeDocx, mimeLabel(MimeDocx))
	assert.Equal(t, MimeText, mimeLabel(MimeText))
	assert.Equal(t, "other", mimeLabel("image/png"))
	assert.Equal(t, "other", mimeLabel("x-attacker/"+uuid.NewString()))
}

func TestIngest_UnknownMimeDoesNotAddSeries(t *testing.T) {
	svc := NewService(nil, &fakeUploads{}, logger.NewNoOpLogger())
	for i := 0; i < 3; i++ {
		_, err := svc.Ingest(context.Background(), uuid.New(), Upload{
			Filename: "cv.bin",
			Mime:     "application/x-" + uuid.NewString(),
			Data:     []byte{1},
		})
		require.Error(t, err)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "resumematcher_resume_uploads_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "mime" {
					assert.NotContains(t, l.GetValue(), "application/x-")
				}
			}
		}
	}
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	return &s3.PutObjectOutput{}, f.err
}

type fakeUploads struct {
	rows []database.CreateResumeUploadParams
}

func (f *fakeUploads) CreateResumeUpload(_ context.Context, arg database.CreateResumeUploadParams) (database.ResumeUpload, error) {
	f.rows = append(f.rows, arg)
	return database.ResumeUpload{ID: arg.ID}, nil
}

func TestIngest_StoresInR2(t *testing.T) {
	putter := &fakePutter{}
	uploads := &fakeUploads{}
	svc := NewService(&R2Uploader{client: putter, bucket: "resumes"}, uploads, logger.NewNoOpLogger())
	user := uuid.New()

	text, err := svc.Ingest(context.Background(), user, Upload{Filename: "cv.txt", Mime: "text/plain", Data: []byte("  Ten years of Go.  ")})
	require.NoError(t, err)
	assert.Equal(t, "Ten years of Go.", text)

	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "resumes", *putter.inputs[0].Bucket)
	assert.True(t, strings.HasPrefix(*putter.inputs[0].Key, "resumes/"+user.String()+"/"))
	assert.True(t, strings.HasSuffix(*putter.inputs[0].Key, ".txt"))

	require.Len(t, uploads.rows, 1)
	assert.Equal(t, ProviderR2, uploads.rows[0].StorageProvider)
	assert.Equal(t, StatusStored, uploads.rows[0].UploadStatus)
	assert.Equal(t, *putter.inputs[0].Key, uploads.rows[0].ObjectKey)
}

func TestIngest_UploadFailureStillReturnsText(t *testing.T) {
	uploads := &fakeUploads{}
	svc := NewService(&R2Uploader{client: &fakePutter{err: errors.New("403")}, bucket: "b"}, uploads, logger.NewNoOpLogger())

	text, err := svc.Ingest(context.Background(), uuid.New(), Upload{Filename: "cv.txt", Data: []byte("resume text")})
	require.NoError(t, err)
	assert.Equal(t, "resume text", text)
	require.Len(t, uploads.rows, 1)
	assert.Equal(t, StatusParsed, uploads.rows[0].UploadStatus)
	assert.Empty(t, uploads.rows[0].ObjectKey)
}

func TestIngest_Rejections(t *testing.T) {
	svc := NewService(nil, &fakeUploads{}, logger.NewNoOpLogger())
	ctx := context.Background()
	user := uuid.New()

	tests := []struct {
		name string
		up   Upload
		msg  string
	}{
		{"empty", Upload{Filename: "cv.txt"}, "The uploaded file is empty."},
		{"too large", Upload{Filename: "cv.txt", Data: make([]byte, MaxUploadBytes+1)}, "File is too large. The limit is 5 MB."},
		{"unsupported", Upload{Filename: "cv.png", Mime: "image/png", Data: []byte{1}}, "Unsupported file type. Upload a PDF, DOCX or plain text file."},
		{"unreadable pdf", Upload{Filename: "cv.pdf", Data: []byte("garbage")}, "We couldn't read that file. Try pasting the text instead."},
		{"blank text", Upload{Filename: "cv.txt", Data: []byte("   ")}, "No text could be found in that file."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, user, tt.up)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.msg, apperr.Message(err))
		})
	}
}

type flakyPutter struct {
	failures int
	calls    int
}

func (f *flakyPutter) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return &s3.PutObjectOutput{}, nil
}

func TestIngest_RetriesTransientUploadFailure(t *testing.T) {
	putter := &flakyPutter{failures: 1}
	uploads := &fakeUploads{}
	svc := NewService(&R2Uploader{client: putter, bucket: "b"}, uploads, logger.NewNoOpLogger())

	_, err := svc.Ingest(context.Background(), uuid.New(), Upload{Filename: "cv.txt", Data: []byte("resume text")})
	require.NoError(t, err)
	assert.Equal(t, 2, putter.calls)
	assert.Equal(t, StatusStored, uploads.rows[0].UploadStatus)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := retry(ctx, 3, func() (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
