package core_test

import (
	"testing"

	"github.com/lexibolt/lexibolt/internal/games/battle/core"
)

func freshBolt(opacity float64) *core.Bolt {
	return &core.Bolt{
		Start:     core.Vec{X: 0, Y: 270},
		End:       core.Vec{X: 960, Y: 270},
		Segments:  []core.Segment{{From: core.Vec{X: 0, Y: 270}, To: core.Vec{X: 960, Y: 270}}},
		Opacity:   opacity,
		Color:     testColor,
		BaseWidth: 4.8,
	}
}

func TestStageBoltLifetime(t *testing.T) {
	st := core.NewStage(core.NewRand(1))
	st.AddBolts([]*core.Bolt{freshBolt(1.0)})

	for i := 0; i < 12; i++ {
		st.Tick()
	}
	if st.Len() != 1 {
		t.Fatalf("bolt should survive 12 ticks, stage has %d bolts", st.Len())
	}

	st.Tick()
	if st.Len() != 0 {
		t.Errorf("bolt should be removed by tick 13, stage has %d bolts", st.Len())
	}
}

func TestStageFlashDecaysToZero(t *testing.T) {
	st := core.NewStage(core.NewRand(1))
	st.SetFlash(0.2)

	for i := 0; i < 10; i++ {
		st.Tick()
		if st.Flash() < 0 {
			t.Fatalf("flash went negative on tick %d: %v", i+1, st.Flash())
		}
	}
	if st.Flash() != 0 {
		t.Errorf("flash should rest at exactly zero, got %v", st.Flash())
	}
}

func TestStageShakeDecaysToZero(t *testing.T) {
	st := core.NewStage(core.NewRand(42))
	st.SetShake(8)

	for i := 0; i < 8; i++ {
		st.Tick()
		ox, oy := st.Offset()
		if ox < -4 || ox > 4 || oy < -4 || oy > 4 {
			t.Fatalf("tick %d: shake offset (%v, %v) exceeds half the intensity", i+1, ox, oy)
		}
		if st.Shake() < 0 {
			t.Fatalf("shake went negative on tick %d: %v", i+1, st.Shake())
		}
	}

	if st.Shake() != 0 {
		t.Errorf("shake should rest at exactly zero, got %v", st.Shake())
	}
	st.Tick()
	if ox, oy := st.Offset(); ox != 0 || oy != 0 {
		t.Errorf("offset should reset once shake is spent, got (%v, %v)", ox, oy)
	}
}

func TestStageShakeOffsetsVary(t *testing.T) {
	st := core.NewStage(core.NewRand(7))
	st.SetShake(12)

	seen := map[[2]float64]bool{}
	for i := 0; i < 6; i++ {
		st.Tick()
		ox, oy := st.Offset()
		seen[[2]float64{ox, oy}] = true
	}
	if len(seen) < 2 {
		t.Error("shake offsets should be resampled every tick")
	}
}

func TestStageInsertionOrderSurvivesRemoval(t *testing.T) {
	st := core.NewStage(core.NewRand(1))
	dying := freshBolt(0.08) // Gone after one tick
	young := freshBolt(1.0)
	st.AddBolts([]*core.Bolt{dying, young})

	st.Tick()
	if st.Len() != 1 {
		t.Fatalf("expected the dying bolt removed, stage has %d bolts", st.Len())
	}
	if st.Bolts()[0] != young {
		t.Error("surviving bolt should keep its position in draw order")
	}
}

func TestStageClear(t *testing.T) {
	st := core.NewStage(core.NewRand(5))
	st.AddBolts([]*core.Bolt{freshBolt(1.0), freshBolt(0.5)})
	st.SetFlash(0.25)
	st.SetShake(12)
	st.Tick()

	st.Clear()
	if st.Len() != 0 {
		t.Errorf("clear should drop all bolts, got %d", st.Len())
	}
	if st.Flash() != 0 || st.Shake() != 0 {
		t.Errorf("clear should zero flash and shake, got %v / %v", st.Flash(), st.Shake())
	}
	if ox, oy := st.Offset(); ox != 0 || oy != 0 {
		t.Errorf("clear should zero the offset, got (%v, %v)", ox, oy)
	}
}

func TestStageAttackFlashThenTick(t *testing.T) {
	// An attack sets flash and shake in the same frame the bolts land; one
	// tick later everything has moved one decay step.
	st := core.NewStage(core.NewRand(9))
	bolts := core.Generate(core.NewRand(9), core.Vec{X: 100, Y: 270},
		core.Vec{X: 860, Y: 270}, 0, testColor, core.StrikeWidthFactor)
	st.AddBolts(bolts)
	st.SetFlash(0.2)
	st.SetShake(8)

	before := st.Len()
	st.Tick()
	if st.Len() != before {
		t.Errorf("fresh bolts should survive the first tick: %d -> %d", before, st.Len())
	}
	for _, b := range st.Bolts() {
		if b.Opacity >= 1.0 {
			t.Errorf("bolt opacity should have decayed below 1.0, got %v", b.Opacity)
		}
	}
	if st.Flash() >= 0.2 {
		t.Errorf("flash should have decayed below 0.2, got %v", st.Flash())
	}
	if st.Shake() >= 8 {
		t.Errorf("shake should have decayed below 8, got %v", st.Shake())
	}
}
