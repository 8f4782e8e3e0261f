package filters

import "testing"

func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"48656C6C6F>", "Hello", false},
		{"48 65 6c\n6c 6f", "Hello", false},
		{"414>", "A@", false},
		{">", "", false},
		{"4G>", "", true},
	}
	for _, tt := range tests {
		got, err := ASCIIHexDecode([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("ASCIIHexDecode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && string(got) != tt.want {
			t.Errorf("ASCIIHexDecode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<~87cURD]i,\"Ebo80~>", "Hello World!"},
		{"87cURD]i,\"Ebo80~>", "Hello World!"},
		{"z~>", "\x00\x00\x00\x00"},
	}
	for _, tt := range tests {
		got, err := ASCII85Decode([]byte(tt.in))
		if err != nil {
			t.Errorf("ASCII85Decode(%q) failed: %v", tt.in, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("ASCII85Decode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
