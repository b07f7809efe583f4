package resolved

import "testing"

func TestSplitServiceName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantService string
		wantDomain  string
		wantErr     bool
	}{
		{
			name:        "raop over tcp",
			input:       "_raop._tcp.local",
			wantService: "_raop._tcp",
			wantDomain:  "local",
		},
		{
			name:        "udp service",
			input:       "_sleep-proxy._udp.local",
			wantService: "_sleep-proxy._udp",
			wantDomain:  "local",
		},
		{
			name:    "no protocol label",
			input:   "example.local",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, domain, err := splitServiceName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitServiceName(%q) expected error, got %q/%q", tt.input, service, domain)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitServiceName(%q) unexpected error: %v", tt.input, err)
			}
			if service != tt.wantService || domain != tt.wantDomain {
				t.Errorf("splitServiceName(%q) = %q/%q, want %q/%q",
					tt.input, service, domain, tt.wantService, tt.wantDomain)
			}
		})
	}
}

func TestSplitInstanceName(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantInstance string
		wantService  string
		wantDomain   string
		wantErr      bool
	}{
		{
			name:         "plain instance",
			input:        "Kitchen._raop._tcp.local",
			wantInstance: "Kitchen",
			wantService:  "_raop._tcp",
			wantDomain:   "local",
		},
		{
			name:         "instance containing dots",
			input:        "Living Room v2.1._raop._tcp.local",
			wantInstance: "Living Room v2.1",
			wantService:  "_raop._tcp",
			wantDomain:   "local",
		},
		{
			name:    "missing instance label",
			input:   "_raop._tcp.local",
			wantErr: true,
		},
		{
			name:    "no protocol label",
			input:   "Kitchen.local",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance, service, domain, err := splitInstanceName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitInstanceName(%q) expected error, got %q/%q/%q",
						tt.input, instance, service, domain)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitInstanceName(%q) unexpected error: %v", tt.input, err)
			}
			if instance != tt.wantInstance || service != tt.wantService || domain != tt.wantDomain {
				t.Errorf("splitInstanceName(%q) = %q/%q/%q, want %q/%q/%q",
					tt.input, instance, service, domain,
					tt.wantInstance, tt.wantService, tt.wantDomain)
			}
		})
	}
}
