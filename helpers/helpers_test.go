package helpers

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestShortenAddr(t *testing.T) {
	got := ShortenAddr("0xB473EAcebc96437D20E39c5C42441D0818F985B7")
	if got != "0xB473…85B7" {
		t.Errorf("ShortenAddr = %q", got)
	}
	if ShortenAddr("0x12") != "0x12" {
		t.Error("short input should be returned unchanged")
	}
}

func TestShortenHash(t *testing.T) {
	if ShortenHash(common.Hash{}) != "" {
		t.Error("zero hash should render empty")
	}
	h := common.HexToHash("0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef")
	if got := ShortenHash(h); got != "0x12345678…abcdef" {
		t.Errorf("ShortenHash = %q", got)
	}
}

func TestFormatETH(t *testing.T) {
	wei, _ := new(big.Int).SetString("3250000000000000000", 10)
	if got := FormatETH(wei); got != "3.25 ETH" {
		t.Errorf("FormatETH = %q", got)
	}
	if got := FormatETH(nil); got != "0 ETH" {
		t.Errorf("FormatETH(nil) = %q", got)
	}
}

func TestLoadedAt(t *testing.T) {
	if LoadedAt(time.Now(), true) != "loading…" {
		t.Error("expected loading marker")
	}
	if LoadedAt(time.Time{}, false) != "never" {
		t.Error("expected never for zero time")
	}
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	if LoadedAt(ts, false) != "07:08:09" {
		t.Errorf("LoadedAt = %q", LoadedAt(ts, false))
	}
}

func TestFadeString(t *testing.T) {
	if FadeString("", "#000000", "#FFFFFF") != "" {
		t.Error("empty input should render empty")
	}
	if FadeString("vault", "#7EE787", "#82CFFD") == "" {
		t.Error("expected rendered output")
	}
}
