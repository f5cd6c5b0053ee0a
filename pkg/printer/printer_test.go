package printer

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValuePadsToWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "108.70")

	lines := strings.Split(string(doc.Bytes()[2:]), "\n")
	assert.Equal(t, "Total:        108.70", lines[0])
	assert.Len(t, lines[0], 20)
}

func TestKeyValueShortensLongKey(t *testing.T) {
	doc := NewDocument(16)
	doc.KeyValue("Euro banknotes and coins", "100.00")

	line := strings.TrimSuffix(string(doc.Bytes()[2:]), "\n")
	assert.Equal(t, "Euro bank 100.00", line)
}

func TestDocumentStartsWithInit(t *testing.T) {
	data := NewDocument(0).Text("hello").PartialCut().Bytes()

	assert.Equal(t, []byte{ESC, '@'}, data[:2])
	assert.Equal(t, []byte{GS, 'V', 0x01}, data[len(data)-3:])
	assert.Equal(t, Width58mm, NewDocument(0).Width())
}

func TestNewPrinter(t *testing.T) {
	p, err := New("", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected(context.Background()))
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = New(TypeUSB, "", "")
	assert.Error(t, err)
	_, err = New(TypeNetwork, "", "")
	assert.Error(t, err)
	_, err = New("serial", "", "")
	assert.Error(t, err)
}

func TestUSBPrinterWritesDeviceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p := NewUSBPrinter(path)
	require.True(t, p.IsConnected(context.Background()))
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "receipt", string(got))
}

func TestNetworkPrinterSendsJob(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte("job")))
	assert.Equal(t, "job", string(<-received))
}
