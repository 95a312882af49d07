package usecase_test

import (
	"testing"

	"github.com/vitos/crypto_hedge_calc/internal/usecase"
)

func TestResolveFeesTierBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		volume      float64
		wantTaker   float64
		wantMaker   float64
		wantFunding float64
	}{
		{"Zero volume -> first tier", 0, 0.00035, 0.0001, 0.0},
		{"Just below 5M", 4_999_999, 0.00035, 0.0001, 0.0},
		{"Exactly 5M -> second tier", 5_000_000, 0.00030, 0.00008, -0.00001},
		{"Just below 25M", 24_999_999, 0.00030, 0.00008, -0.00001},
		{"Exactly 25M -> third tier", 25_000_000, 0.00025, 0.00005, -0.00002},
		{"Just below 100M", 99_999_999, 0.00025, 0.00005, -0.00002},
		{"Exactly 100M -> fourth tier", 100_000_000, 0.00022, 0.00004, -0.000025},
		{"Just below 500M", 499_999_999, 0.00022, 0.00004, -0.000025},
		{"Exactly 500M -> fifth tier", 500_000_000, 0.00020, 0.00001, -0.00003},
		{"Just below 2B", 1_999_999_999, 0.00020, 0.00001, -0.00003},
		{"Exactly 2B -> top tier", 2_000_000_000, 0.00019, 0.0, -0.00003},
		{"Far above 2B", 50_000_000_000, 0.00019, 0.0, -0.00003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := usecase.ResolveFees(tt.volume)
			if rates.TakerFee != tt.wantTaker {
				t.Errorf("TakerFee = %v, want %v", rates.TakerFee, tt.wantTaker)
			}
			if rates.MakerFee != tt.wantMaker {
				t.Errorf("MakerFee = %v, want %v", rates.MakerFee, tt.wantMaker)
			}
			if rates.FundingFee != tt.wantFunding {
				t.Errorf("FundingFee = %v, want %v", rates.FundingFee, tt.wantFunding)
			}
		})
	}
}

func TestResolveFeesNegativeVolumeClampsToZero(t *testing.T) {
	rates := usecase.ResolveFees(-1_000_000)
	if rates.TakerFee != 0.00035 {
		t.Errorf("negative volume should use the first tier, got taker %v", rates.TakerFee)
	}
}
