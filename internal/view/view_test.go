package view

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/offlog/legacyview/internal/keys"
	"github.com/offlog/legacyview/internal/privatebox"
)

const testMessage = `{
  "key": "%KKPLj1tWfuVhCvgJz2hG/nIsVzmBRzUJaqHv+sb+n1c=.sha256",
  "value": {
    "previous": "%xsMQA2GrsZew0GSxmDSBaoxDafVaUJ07YVaDGcp65a4=.sha256",
    "author": "@QlCTpvY7p9ty2yOFrv1WU1AE88aoQc4Y7wYal7PFc+w=.ed25519",
    "sequence": 4797,
    "timestamp": 1543958997985,
    "hash": "sha256",
    "content": {
      "type": "post",
      "root": "%9EdpeKC5CgzpQs/x99CcnbD3n6ugUlwm19F7ZTqMh5w=.sha256",
      "branch": "%sQV8QpyUNvh7fBAs2ts00Qo2gj44CQBmwonWJzm+AeM=.sha256",
      "reply": {
        "%9EdpeKC5CgzpQs/x99CcnbD3n6ugUlwm19F7ZTqMh5w=.sha256": "@+UMKhpbzXAII+2/7ZlsgkJwIsxdfeFi36Z5Rk1gCfY0=.ed25519"
      },
      "channel": null,
      "recps": null,
      "text": "the chicken and egg problem is still there",
      "mentions": [{"link": "@+UMKhpbzXAII+2/7ZlsgkJwIsxdfeFi36Z5Rk1gCfY0=.ed25519"}]
    },
    "signature": "mi5j/buYZdsiH8l6CVWRqdBKe+0UG6tVTOoVVjMhYl38Nkmb8wiIEfe7zu0JWuiHkaAIq+0/ZqYr6aV14j4fAw==.sig.ed25519"
  },
  "timestamp": 1543959001933
}`

func openTestView(t *testing.T, unboxKeys []privatebox.SecretKey) *View {
	t.Helper()

	v, err := Open(filepath.Join(t.TempDir(), "view.sqlite3"), unboxKeys, zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestOpenCreatesSchema(t *testing.T) {
	v := openTestView(t, nil)

	latest, err := v.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != 0 {
		t.Errorf("Latest = %d on empty view, want 0", latest)
	}
}

func TestAppendAndQuery(t *testing.T) {
	v := openTestView(t, nil)
	ctx := context.Background()

	const expectedSeq = 1234
	if err := v.Append(ctx, expectedSeq, []byte(testMessage)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	seq, err := v.SeqByKey(ctx, "%KKPLj1tWfuVhCvgJz2hG/nIsVzmBRzUJaqHv+sb+n1c=.sha256")
	if err != nil {
		t.Fatalf("SeqByKey failed: %v", err)
	}
	if seq != expectedSeq {
		t.Errorf("SeqByKey = %d, want %d", seq, expectedSeq)
	}

	seqs, err := v.SeqsByType(ctx, "post")
	if err != nil {
		t.Fatalf("SeqsByType failed: %v", err)
	}
	if len(seqs) != 1 || seqs[0] != expectedSeq {
		t.Errorf("SeqsByType = %v, want [%d]", seqs, expectedSeq)
	}

	latest, err := v.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest != expectedSeq {
		t.Errorf("Latest = %d, want %d", latest, expectedSeq)
	}
}

func TestAppendExtractsLinks(t *testing.T) {
	v := openTestView(t, nil)
	ctx := context.Background()

	if err := v.Append(ctx, 1, []byte(testMessage)); err != nil {
		t.Fatal(err)
	}

	froms, err := v.LinksTo(ctx, "@+UMKhpbzXAII+2/7ZlsgkJwIsxdfeFi36Z5Rk1gCfY0=.ed25519")
	if err != nil {
		t.Fatalf("LinksTo failed: %v", err)
	}
	if len(froms) != 1 || froms[0] != "%KKPLj1tWfuVhCvgJz2hG/nIsVzmBRzUJaqHv+sb+n1c=.sha256" {
		t.Errorf("LinksTo = %v", froms)
	}
}

func TestAppendBatchRollsBackOnError(t *testing.T) {
	v := openTestView(t, nil)
	ctx := context.Background()

	items := []Item{
		{Seq: 1, Raw: []byte(testMessage)},
		{Seq: 2, Raw: []byte(`{"key":`)},
	}

	err := v.AppendBatch(ctx, items)
	if err == nil {
		t.Fatal("expected error for malformed item")
	}
	var aerr *AppendError
	if !errors.As(err, &aerr) {
		t.Fatalf("error is %T, want *AppendError", err)
	}
	if aerr.Seq != 2 {
		t.Errorf("failing seq = %d, want 2", aerr.Seq)
	}

	// The valid item must not be visible either.
	latest, err := v.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest != 0 {
		t.Errorf("Latest = %d after failed batch, want 0", latest)
	}
}

func TestSeqByKeyNotFound(t *testing.T) {
	v := openTestView(t, nil)

	_, err := v.SeqByKey(context.Background(), "%missing.sha256")
	var nferr *KeyNotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("error = %v, want *KeyNotFoundError", err)
	}
}

func TestCheckIntegrity(t *testing.T) {
	v := openTestView(t, nil)
	if err := v.CheckIntegrity(context.Background()); err != nil {
		t.Errorf("CheckIntegrity failed on fresh database: %v", err)
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sqlite3")
	if err := os.WriteFile(path, []byte("BANG"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path, nil, zap.NewNop()); err == nil {
		t.Error("Open succeeded on a corrupt database file")
	}
}

func privateMessage(t *testing.T, pk privatebox.PublicKey) []byte {
	t.Helper()

	sealed, err := privatebox.Box([]byte(`{"type":"post","text":"psst","recps":[]}`), []privatebox.PublicKey{pk})
	if err != nil {
		t.Fatal(err)
	}
	boxed := base64.StdEncoding.EncodeToString(sealed) + ".box"

	return []byte(fmt.Sprintf(`{
	  "key": "%%private1=.sha256",
	  "value": {
	    "author": "@QlCTpvY7p9ty2yOFrv1WU1AE88aoQc4Y7wYal7PFc+w=.ed25519",
	    "sequence": 1,
	    "timestamp": 1543958997985,
	    "content": "%s"
	  },
	  "timestamp": 1543959001933
	}`, boxed))
}

func TestAppendPrivateMessageWithKey(t *testing.T) {
	id, err := keys.Generate()
	if err != nil {
		t.Fatal(err)
	}
	pk, err := id.CurvePublic()
	if err != nil {
		t.Fatal(err)
	}

	v := openTestView(t, []privatebox.SecretKey{id.UnboxKey()})
	ctx := context.Background()

	if err := v.Append(ctx, 1, privateMessage(t, pk)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Decrypted content is indexed with its real type.
	seqs, err := v.SeqsByType(ctx, "post")
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("SeqsByType = %v, want one decrypted post", seqs)
	}

	var isDecrypted bool
	if err := v.db.QueryRow(`SELECT is_decrypted FROM messages WHERE id = 1`).Scan(&isDecrypted); err != nil {
		t.Fatal(err)
	}
	if !isDecrypted {
		t.Error("is_decrypted = false for unsealed message")
	}
}

func TestAppendPrivateMessageWithoutKey(t *testing.T) {
	id, err := keys.Generate()
	if err != nil {
		t.Fatal(err)
	}
	pk, err := id.CurvePublic()
	if err != nil {
		t.Fatal(err)
	}

	// No unbox keys configured: content is discarded, row still indexed.
	v := openTestView(t, nil)
	ctx := context.Background()

	if err := v.Append(ctx, 1, privateMessage(t, pk)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	seqs, err := v.SeqsByType(ctx, "post")
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 0 {
		t.Errorf("SeqsByType = %v, want none for sealed content", seqs)
	}

	var content string
	if err := v.db.QueryRow(`SELECT content FROM messages WHERE id = 1`).Scan(&content); err != nil {
		t.Fatal(err)
	}
	if content != "null" {
		t.Errorf("content = %q, want \"null\"", content)
	}
}
