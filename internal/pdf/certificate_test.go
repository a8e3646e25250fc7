package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

func TestRenderCertificate(t *testing.T) {
	issued := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cert := model.Certificate{
		ID:            1,
		RefNo:         "4f9c2d1e-ref",
		CertType:      model.CertBirth,
		ApplicantName: "Asha Devi",
		FatherName:    "Ram Prasad",
		EventDate:     "2001-06-15",
		EventPlace:    "Rampur",
		Status:        model.CertStatusIssued,
		IssuedAt:      &issued,
	}

	var buf bytes.Buffer
	require.NoError(t, RenderCertificate(&buf, cert))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output starts with the PDF magic")
	assert.Greater(t, len(out), 1024, "document carries real content")
}

func TestCertTitle(t *testing.T) {
	assert.Equal(t, "Income Certificate", certTitle(model.CertIncome))
	assert.Equal(t, "Certificate", certTitle("UNKNOWN"))
}
