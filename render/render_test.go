package render

import (
	"testing"
)

func TestOpen_MissingFile(t *testing.T) {
	d, err := Open("testdata/no-such-file.pdf")
	if err == nil {
		d.Close()
		t.Fatal("expected error opening missing file")
	}
}

func TestFromBytes_Garbage(t *testing.T) {
	d, err := FromBytes([]byte("not a pdf"))
	if err == nil {
		d.Close()
		t.Fatal("expected error opening garbage data")
	}
}

func TestSetDPI(t *testing.T) {
	d := &Document{dpi: DefaultDPI}

	d.SetDPI(300)
	if d.DPI() != 300 {
		t.Errorf("DPI = %d, want 300", d.DPI())
	}

	// Non-positive values leave the resolution alone.
	d.SetDPI(0)
	if d.DPI() != 300 {
		t.Errorf("DPI after SetDPI(0) = %d, want 300", d.DPI())
	}
	d.SetDPI(-72)
	if d.DPI() != 300 {
		t.Errorf("DPI after SetDPI(-72) = %d, want 300", d.DPI())
	}
}

func TestClose_Idempotent(t *testing.T) {
	d := &Document{}
	if err := d.Close(); err != nil {
		t.Errorf("Close on already-closed document: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
