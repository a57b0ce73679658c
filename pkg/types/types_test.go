package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalVolumeAttr(t *testing.T) {
	tests := []struct {
		attr      string
		writeable bool
		active    bool
		opened    bool
	}{
		{attr: "-wi-ao----", writeable: true, active: true, opened: true},
		{attr: "-wi-a-----", writeable: true, active: true, opened: false},
		{attr: "-wi-------", writeable: true, active: false, opened: false},
		{attr: "-ri-a-----", writeable: false, active: true, opened: false},
		{attr: "", writeable: false, active: false, opened: false},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			lv := LogicalVolume{Attr: tt.attr}
			assert.Equal(t, tt.writeable, lv.Writeable())
			assert.Equal(t, tt.active, lv.Active())
			assert.Equal(t, tt.opened, lv.Opened())
		})
	}
}
