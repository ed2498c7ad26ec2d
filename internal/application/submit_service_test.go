package application

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports/mocks"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

var connectedSession = staticSession{Connected: true, Address: addrA, Balance: "1"}

func testDraft(t *testing.T) domain.UploadDraft {
	t.Helper()

	draft, err := SubmitMemeCommand{
		FileName: "/tmp/doge.png",
		Image:    pngImage,
		Caption:  "such meme",
		Hashtags: []string{"doge", "#umi"},
	}.Draft()
	require.NoError(t, err)

	return draft
}

func TestSubmitPinsThenRegisters(t *testing.T) {
	t.Parallel()

	pinner := mocks.NewMockPinner(t)
	contract := mocks.NewMockMemeContract(t)
	fee := big.NewInt(10_000_000_000_000)
	receipt := domain.SubmissionReceipt{TxHash: "0xabc", BlockNumber: 9, TokenID: big.NewInt(12)}

	pinner.EXPECT().Pin(mockAnyContext(), mock.MatchedBy(func(req domain.PinRequest) bool {
		return req.FileName == "doge.png" &&
			req.ContentType == "image/png" &&
			req.Description == "such meme" &&
			assert.ObjectsAreEqual([]string{"#doge", "#umi"}, req.Hashtags) &&
			req.Timestamp.Equal(testNow)
	})).Return("QmDoge", nil).Once()
	contract.EXPECT().SubmissionFee(mockAnyContext()).Return(fee, nil).Once()
	contract.EXPECT().SubmitMeme(mockAnyContext(), common.HexToAddress(addrA), "QmDoge", fee).Return(receipt, nil).Once()

	svc := NewSubmitService(connectedSession, pinner, contract, "", nil, fixedClock{now: testNow})

	result, err := svc.Submit(context.Background(), testDraft(t))
	require.NoError(t, err)
	assert.Equal(t, "QmDoge", result.ContentRef)
	assert.Equal(t, fee, result.Fee)
	assert.Equal(t, receipt, result.Receipt)
}

func TestSubmitRequiresConnectedWallet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session staticSession
	}{
		{name: "disconnected", session: staticSession{}},
		{name: "connected without address", session: staticSession{Connected: true}},
		{name: "address is not hex", session: staticSession{Connected: true, Address: "alice"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pinner := mocks.NewMockPinner(t)
			contract := mocks.NewMockMemeContract(t)
			svc := NewSubmitService(tc.session, pinner, contract, "", nil, fixedClock{now: testNow})

			_, err := svc.Submit(context.Background(), testDraft(t))
			assert.ErrorIs(t, err, domain.ErrWalletNotConnected)
		})
	}
}

func TestSubmitWithoutContract(t *testing.T) {
	t.Parallel()

	svc := NewSubmitService(connectedSession, mocks.NewMockPinner(t), nil, "", nil, nil)

	_, err := svc.Submit(context.Background(), testDraft(t))
	assert.ErrorIs(t, err, domain.ErrContractNotConfigured)
}

func TestSubmitStopsWhenPinFails(t *testing.T) {
	t.Parallel()

	pinner := mocks.NewMockPinner(t)
	contract := mocks.NewMockMemeContract(t)
	pinner.EXPECT().Pin(mockAnyContext(), mock.Anything).Return("", domain.ErrUploadFailure).Once()

	svc := NewSubmitService(connectedSession, pinner, contract, "", nil, fixedClock{now: testNow})

	_, err := svc.Submit(context.Background(), testDraft(t))
	assert.ErrorIs(t, err, domain.ErrUploadFailure)
}

func TestSubmitKeepsContentRefOnRejection(t *testing.T) {
	t.Parallel()

	pinner := mocks.NewMockPinner(t)
	contract := mocks.NewMockMemeContract(t)
	pinner.EXPECT().Pin(mockAnyContext(), mock.Anything).Return("QmKept", nil).Once()
	contract.EXPECT().SubmissionFee(mockAnyContext()).Return(big.NewInt(1), nil).Once()
	contract.EXPECT().SubmitMeme(mockAnyContext(), mock.Anything, "QmKept", mock.Anything).
		Return(domain.SubmissionReceipt{}, domain.ErrTransactionRejected).Once()

	svc := NewSubmitService(connectedSession, pinner, contract, "", nil, fixedClock{now: testNow})

	result, err := svc.Submit(context.Background(), testDraft(t))
	require.ErrorIs(t, err, domain.ErrTransactionRejected)
	assert.Equal(t, "QmKept", result.ContentRef)
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	t.Parallel()

	svc := NewSubmitService(connectedSession, mocks.NewMockPinner(t), mocks.NewMockMemeContract(t), "", nil, nil)

	_, err := svc.Submit(context.Background(), domain.UploadDraft{})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestResolveFee(t *testing.T) {
	t.Parallel()

	configured := big.NewInt(10_000_000_000_000)

	tests := []struct {
		name     string
		fallback string
		onchain  *big.Int
		rpcErr   error
		want     *big.Int
		wantErr  bool
	}{
		{name: "contract value wins", fallback: "0.00001", onchain: big.NewInt(20_000_000_000_000), want: big.NewInt(20_000_000_000_000)},
		{name: "contract agrees", fallback: "0.00001", onchain: configured, want: configured},
		{name: "zero falls back", fallback: "0.00001", onchain: big.NewInt(0), want: configured},
		{name: "rpc failure falls back", fallback: "0.00001", rpcErr: domain.ErrRPCFailure, want: configured},
		{name: "default fallback", fallback: "", rpcErr: domain.ErrEmptyResponse, want: configured},
		{name: "bad fallback without contract value", fallback: "lots", rpcErr: domain.ErrRPCFailure, wantErr: true},
		{name: "bad fallback with contract value", fallback: "lots", onchain: big.NewInt(7), want: big.NewInt(7)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			contract := mocks.NewMockMemeContract(t)
			contract.EXPECT().SubmissionFee(mockAnyContext()).Return(tc.onchain, tc.rpcErr).Once()
			svc := NewSubmitService(connectedSession, nil, contract, tc.fallback, nil, nil)

			fee, err := svc.ResolveFee(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Zero(t, tc.want.Cmp(fee), "want %s got %s", tc.want, fee)
		})
	}
}

func TestResolveFeeWithoutContract(t *testing.T) {
	t.Parallel()

	svc := NewSubmitService(connectedSession, nil, nil, "0.5", nil, nil)

	fee, err := svc.ResolveFee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.5", domain.FormatEther(fee))
}

func TestUploadOnly(t *testing.T) {
	t.Parallel()

	pinner := mocks.NewMockPinner(t)
	pinner.EXPECT().Pin(mockAnyContext(), mock.Anything).Return("QmOnly", nil).Once()
	svc := NewSubmitService(staticSession{}, pinner, nil, "", nil, fixedClock{now: testNow})

	cid, err := svc.Upload(context.Background(), testDraft(t))
	require.NoError(t, err)
	assert.Equal(t, "QmOnly", cid)
}

func TestUploadWrapsPinError(t *testing.T) {
	t.Parallel()

	pinner := mocks.NewMockPinner(t)
	pinner.EXPECT().Pin(mockAnyContext(), mock.Anything).Return("", errors.New("quota exceeded")).Once()
	svc := NewSubmitService(staticSession{}, pinner, nil, "", nil, nil)

	_, err := svc.Upload(context.Background(), testDraft(t))
	assert.ErrorContains(t, err, "pin image: quota exceeded")
}
