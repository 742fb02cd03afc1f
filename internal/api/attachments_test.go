package api_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/tests/testutil"
)

func TestUploadAttachment(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	srv := testutil.NewServer(t)
	parent := srv.SeedTodo(model.Todo{Title: "Report"})

	client := newClient(srv.URL, "")

	var fractions []float64
	content := strings.Repeat("spreadsheet data ", 1000)
	attachment, err := client.UploadAttachment(
		ctx, parent.ID, "report.csv", strings.NewReader(content),
		func(f float64) { fractions = append(fractions, f) },
	)
	assert.Nil(err)
	assert.Equal("report.csv", attachment.FileName)
	assert.Equal(int64(len(content)), attachment.FileSize)

	assert.NotEmpty(fractions)
	assert.InDelta(1.0, fractions[len(fractions)-1], 0.001)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(fractions[i], fractions[i-1])
	}

	assert.Equal([]byte(content), srv.FileContent(attachment.ID))
}

func TestDownloadAttachment(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	srv := testutil.NewServer(t)
	parent := srv.SeedTodo(model.Todo{Title: "Report"})

	client := newClient(srv.URL, "")

	uploaded, err := client.UploadAttachment(
		ctx, parent.ID, "notes.txt", strings.NewReader("remember the milk"), nil,
	)
	assert.Nil(err)

	var buf bytes.Buffer
	n, err := client.DownloadAttachment(ctx, uploaded.ID, &buf)
	assert.Nil(err)
	assert.Equal(int64(buf.Len()), n)
	assert.Equal("remember the milk", buf.String())
}

func TestListAndDeleteAttachments(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	srv := testutil.NewServer(t)
	parent := srv.SeedTodo(model.Todo{Title: "Report"})

	client := newClient(srv.URL, "")

	uploaded, err := client.UploadAttachment(
		ctx, parent.ID, "a.txt", strings.NewReader("a"), nil,
	)
	assert.Nil(err)

	attachments, err := client.ListAttachments(ctx, parent.ID)
	assert.Nil(err)
	assert.Len(attachments, 1)

	assert.Nil(client.DeleteAttachment(ctx, uploaded.ID))

	attachments, err = client.ListAttachments(ctx, parent.ID)
	assert.Nil(err)
	assert.Empty(attachments)
}
