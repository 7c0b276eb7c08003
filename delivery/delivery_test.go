package delivery

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raushankrgupta/storedeck/models"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testArtifact(t *testing.T) Artifact {
	t.Helper()
	target, err := models.NewStoreTarget("nala.ro")
	require.NoError(t, err)
	return Artifact{
		FileName:    "nala_ro.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7 deck"),
		Target:      target,
		ToEmail:     "buyer@example.com",
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := FileSink{Dir: dir}.Deliver(context.Background(), testArtifact(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nala_ro.pdf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 deck", string(got))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

type fakePresign struct{}

func (fakePresign) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + aws.ToString(params.Key) + "?sig=1"}, nil
}

func TestS3Sink(t *testing.T) {
	api := &fakeS3{}
	sink := &S3Sink{client: api, presign: fakePresign{}, bucket: "decks-bucket"}

	loc, err := sink.Deliver(context.Background(), testArtifact(t))
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/decks/nala_ro.pdf?sig=1", loc)
	assert.Equal(t, "decks-bucket", aws.ToString(api.input.Bucket))
	assert.Equal(t, "decks/nala_ro.pdf", aws.ToString(api.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(api.input.ContentType))
	assert.Equal(t, "%PDF-1.7 deck", string(api.body))
}

func TestS3Sink_UploadError(t *testing.T) {
	sink := &S3Sink{client: &fakeS3{err: errors.New("denied")}, bucket: "b"}
	_, err := sink.Deliver(context.Background(), testArtifact(t))
	assert.ErrorContains(t, err, "denied")
}

type fakeMailer struct {
	sent   *mail.SGMailV3
	status int
	err    error
}

func (f *fakeMailer) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestEmailSink(t *testing.T) {
	mailer := &fakeMailer{status: 202}
	sink := &EmailSink{client: mailer, senderName: "Wishlist Plus", logger: zap.NewNop()}

	to, err := sink.Deliver(context.Background(), testArtifact(t))
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", to)

	require.NotNil(t, mailer.sent)
	assert.Equal(t, "marketing@nala.ro", mailer.sent.From.Address)
	require.Len(t, mailer.sent.Attachments, 1)
	att := mailer.sent.Attachments[0]
	assert.Equal(t, "nala_ro.pdf", att.Filename)
	assert.Equal(t, "application/pdf", att.Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 deck")), att.Content)
}

func TestEmailSink_SenderOverrideAndFailures(t *testing.T) {
	mailer := &fakeMailer{status: 202}
	sink := &EmailSink{client: mailer, senderName: "Wishlist Plus", senderEmail: "decks@wishlist.example", logger: zap.NewNop()}
	_, err := sink.Deliver(context.Background(), testArtifact(t))
	require.NoError(t, err)
	assert.Equal(t, "decks@wishlist.example", mailer.sent.From.Address)

	sink.client = &fakeMailer{status: 403}
	_, err = sink.Deliver(context.Background(), testArtifact(t))
	assert.ErrorContains(t, err, "403")

	sink.client = &fakeMailer{err: errors.New("dial tcp")}
	_, err = sink.Deliver(context.Background(), testArtifact(t))
	assert.ErrorContains(t, err, "dial tcp")

	a := testArtifact(t)
	a.ToEmail = ""
	_, err = sink.Deliver(context.Background(), a)
	assert.Error(t, err)
}
