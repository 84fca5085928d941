package collaboration

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	tenantID, author := uuid.New(), uuid.New()
	target := Target{EntityType: registry.TypeActivity, EntityID: uuid.New()}

	c, err := NewComment(tenantID, target, author, "  Looks good  ")
	require.NoError(t, err)
	assert.Equal(t, "Looks good", c.Text)
	assert.False(t, c.Edited)
	require.Len(t, c.GetDomainEvents(), 1)

	_, err = NewComment(tenantID, target, author, " ")
	assert.Error(t, err)
	_, err = NewComment(tenantID, target, author, strings.Repeat("a", MaxCommentLength+1))
	assert.Error(t, err)
	_, err = NewComment(tenantID, Target{EntityType: "widget", EntityID: uuid.New()}, author, "x")
	assert.Error(t, err)
	_, err = NewComment(tenantID, Target{EntityType: registry.TypeActivity}, author, "x")
	assert.Error(t, err)
}

func TestComment_Edit(t *testing.T) {
	author := uuid.New()
	c, err := NewComment(uuid.New(), Target{EntityType: registry.TypeRisk, EntityID: uuid.New()}, author, "first")
	require.NoError(t, err)

	assert.Error(t, c.Edit(uuid.New(), "hijack"))

	require.NoError(t, c.Edit(author, "first"))
	assert.False(t, c.Edited, "unchanged text is not an edit")

	require.NoError(t, c.Edit(author, "second"))
	assert.True(t, c.Edited)
	assert.Equal(t, "second", c.Text)

	assert.True(t, c.CanDelete(author, false))
	assert.True(t, c.CanDelete(uuid.New(), true))
	assert.False(t, c.CanDelete(uuid.New(), false))
}

func TestNewAttachment(t *testing.T) {
	tenantID := uuid.New()
	target := Target{EntityType: registry.TypeInvoice, EntityID: uuid.New()}

	a, err := NewAttachment(tenantID, target, uuid.New(), "../../scan?.pdf", "application/pdf", 1024, 2048)
	require.NoError(t, err)
	assert.Equal(t, "scan_.pdf", a.FileName)
	assert.Equal(t, AttachmentPending, a.Status)

	parts := strings.Split(a.StorageKey, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, tenantID.String(), parts[0])
	assert.Equal(t, "invoice", parts[1])
	assert.Len(t, parts[2], 27, "ksuid segment")
	assert.Equal(t, "scan_.pdf", parts[3])

	require.NoError(t, a.Activate())
	assert.True(t, a.IsActive())
	assert.Error(t, a.Activate())

	_, err = NewAttachment(tenantID, target, uuid.New(), "big.bin", "", 4096, 2048)
	assert.Error(t, err)
	_, err = NewAttachment(tenantID, target, uuid.New(), "", "", 10, 0)
	assert.Error(t, err)
	_, err = NewAttachment(tenantID, Target{EntityType: registry.TypeSprint, EntityID: uuid.New()}, uuid.New(), "a.txt", "", 10, 0)
	assert.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", SanitizeFileName(`C:\Users\me\report.pdf`))
	assert.Equal(t, "", SanitizeFileName(".."))
	assert.Equal(t, "a_b.txt", SanitizeFileName("a:b.txt"))
	long := strings.Repeat("x", 300) + ".pdf"
	got := SanitizeFileName(long)
	assert.Len(t, got, maxFileNameLength)
	assert.True(t, strings.HasSuffix(got, ".pdf"))

	wide := SanitizeFileName(strings.Repeat("é", 300) + ".pdf")
	assert.True(t, utf8.ValidString(wide))
	assert.Equal(t, maxFileNameLength, utf8.RuneCountInString(wide))
	assert.True(t, strings.HasSuffix(wide, "é.pdf"))
}
