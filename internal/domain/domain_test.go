package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletSessionTransitionsKeepInvariants(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var session WalletSession
	assert.True(t, session.Valid())

	session.BeginConnecting()
	assert.True(t, session.Valid())
	assert.True(t, session.Connecting)
	assert.False(t, session.Connected)

	session.MarkConnected("0x1234567890abcdef1234567890abcdef12345678", "1.5")
	assert.True(t, session.Valid())
	assert.False(t, session.Connecting)

	session.Fail("boom", now)
	assert.True(t, session.Valid())
	assert.False(t, session.Connected)
	assert.Empty(t, session.Address)
	assert.Equal(t, "boom", session.LastError)

	session.Reset()
	assert.Equal(t, WalletSession{}, session)
}

func TestWalletSessionValidRejectsBrokenStates(t *testing.T) {
	t.Parallel()

	assert.False(t, WalletSession{Connected: true}.Valid())
	assert.False(t, WalletSession{Connected: true, Connecting: true, Address: "0xabc"}.Valid())
}

func TestWalletSessionVisibleErrorExpiresAfterWindow(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	session := WalletSession{LastError: "rejected", ErrorAt: at}

	assert.Equal(t, "rejected", session.VisibleError(at))
	assert.Equal(t, "rejected", session.VisibleError(at.Add(4900*time.Millisecond)))
	assert.Empty(t, session.VisibleError(at.Add(ErrorDisplayWindow)))
	assert.Equal(t, 2*time.Second, session.ErrorExpiresIn(at.Add(3*time.Second)))
	assert.Zero(t, session.ErrorExpiresIn(at.Add(time.Minute)))
}

func TestShortenAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x1234...5678", ShortenAddress("0x1234567890abcdef1234567890abcdef12345678"))
	assert.Equal(t, "0xabc", ShortenAddress("0xabc"))
	assert.Empty(t, ShortenAddress(""))
}

func TestChainDescriptor(t *testing.T) {
	t.Parallel()

	chain := UmiDevnet()
	assert.Equal(t, "0xa455", chain.HexID())
	assert.True(t, chain.Matches("0xA455"))
	assert.True(t, chain.Matches("0xa455"))
	assert.False(t, chain.Matches("0x1"))
	assert.False(t, chain.Matches("42069"))

	params := chain.AddChainParams()
	assert.Equal(t, "0xa455", params.ChainID)
	assert.Equal(t, "Umi Devnet", params.ChainName)
	assert.Equal(t, NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18}, params.NativeCurrency)
	assert.Equal(t, []string{"https://devnet.moved.network"}, params.RPCURLs)
	assert.Equal(t, []string{"https://devnet.explorer.moved.network"}, params.BlockExplorerURLs)
	assert.Equal(t, "https://devnet.explorer.moved.network/tx/0xdead", chain.TxURL("0xdead"))
}

func TestEntryExists(t *testing.T) {
	t.Parallel()

	creator := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{name: "valid", entry: Entry{Creator: creator, ContentRef: "QmHash"}, want: true},
		{name: "zero creator", entry: Entry{ContentRef: "QmHash"}},
		{name: "empty cid", entry: Entry{Creator: creator}},
		{name: "whitespace cid", entry: Entry{Creator: creator, ContentRef: "  "}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.entry.Exists())
		})
	}
}

func TestSortEntriesBreaksStakeTiesByNewestFirst(t *testing.T) {
	t.Parallel()

	a := Entry{ID: big.NewInt(1), TotalStake: big.NewInt(10), CreatedAt: time.Unix(100, 0)}
	b := Entry{ID: big.NewInt(2), TotalStake: big.NewInt(10), CreatedAt: time.Unix(200, 0)}
	entries := []Entry{a, b}

	SortEntries(entries)

	assert.Equal(t, []Entry{b, a}, entries)
}

func TestSortEntriesByStakeDescending(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{ID: big.NewInt(1), TotalStake: big.NewInt(5)},
		{ID: big.NewInt(2), TotalStake: big.NewInt(20)},
		{ID: big.NewInt(3), TotalStake: big.NewInt(1)},
	}

	SortEntries(entries)

	stakes := make([]int64, 0, len(entries))
	for _, entry := range entries {
		stakes = append(stakes, entry.TotalStake.Int64())
	}
	assert.Equal(t, []int64{20, 5, 1}, stakes)
}

func TestNormalizeHashtag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "crypto", want: "#crypto"},
		{in: "#crypto", want: "#crypto"},
		{in: "  umi  ", want: "#umi"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "#", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeHashtag(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHashtag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUploadDraftHashtagsStayUnique(t *testing.T) {
	t.Parallel()

	var draft UploadDraft
	added, err := draft.AddHashtag("crypto")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = draft.AddHashtag("#crypto")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"#crypto"}, draft.Hashtags)

	_, err = draft.AddHashtag("memes")
	require.NoError(t, err)
	draft.RemoveHashtag("crypto")
	assert.Equal(t, []string{"#memes"}, draft.Hashtags)
}

func TestUploadDraftSetImageAcceptsImagesOnly(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	var draft UploadDraft
	require.NoError(t, draft.SetImage("/tmp/cat.png", png))
	assert.Equal(t, "image/png", draft.ContentType)
	assert.Equal(t, "cat.png", draft.FileName)
	assert.NoError(t, draft.Validate())

	err := draft.SetImage("notes.txt", []byte("hello world"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.ErrorIs(t, UploadDraft{}.Validate(), ErrInvalidImage)
}

func TestUploadDraftPinRequest(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	draft := UploadDraft{FileName: "a.png", ContentType: "image/png", Image: []byte{1}, Caption: "gm", Hashtags: []string{"#a"}}

	req := draft.PinRequest(now)
	assert.Equal(t, PinName, req.Name)
	assert.Equal(t, "gm", req.Description)
	assert.Equal(t, []string{"#a"}, req.Hashtags)
	assert.Equal(t, now, req.Timestamp)
}

func TestFormatAndParseEther(t *testing.T) {
	t.Parallel()

	fee, err := ParseEther("0.00001")
	require.NoError(t, err)
	assert.Equal(t, "10000000000000", fee.String())
	assert.Equal(t, "0.00001", FormatEther(fee))

	oneAndHalf, err := ParseEther("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1.5", FormatEther(oneAndHalf))
	assert.Equal(t, "2", FormatEther(big.NewInt(0).Mul(big.NewInt(2), pow10(18))))
	assert.Equal(t, "0", FormatEther(nil))

	wei, _ := new(big.Int).SetString("1234567000000000000", 10)
	assert.Equal(t, "1.2346", FormatEtherFixed(wei, 4))
	assert.Equal(t, "1.2346", DisplayBalance("1.234567"))
	assert.Equal(t, "0.0000", FormatEtherFixed(big.NewInt(1), 4))

	_, err = ParseEther("")
	assert.Error(t, err)
	_, err = ParseEther("1.2.3")
	assert.Error(t, err)
	_, err = ParseEther("0.0000000000000000001")
	assert.Error(t, err)
	_, err = ParseEther("abc")
	assert.Error(t, err)
}
