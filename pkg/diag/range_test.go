package diag

import (
	"testing"

	. "src.numbox.dev/pkg/tt"
)

type aRanger struct{ Ranging }

func TestMixedRanging(t *testing.T) {
	Test(t, Fn("MixedRanging", MixedRanging), Table{
		Args(aRanger{Ranging{1, 2}}, aRanger{Ranging{0, 4}}).Rets(Ranging{1, 4}),
		Args(aRanger{Ranging{0, 4}}, aRanger{Ranging{1, 2}}).Rets(Ranging{0, 2}),
	})
}

func TestPointRanging(t *testing.T) {
	Test(t, Fn("PointRanging", PointRanging), Table{
		Args(5).Rets(Ranging{5, 5}),
	})
}
