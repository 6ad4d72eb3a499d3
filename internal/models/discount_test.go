package models

import "testing"

func TestDiscountRule_Apply(t *testing.T) {
	tests := []struct {
		name  string
		rule  DiscountRule
		price int
		want  int
	}{
		{
			name:  "25 percent off EUR 20",
			rule:  DiscountRule{Type: DiscountPercentage, Value: 25},
			price: 2000,
			want:  1500,
		},
		{
			name:  "EUR 5 flat off EUR 20",
			rule:  DiscountRule{Type: DiscountEuro, Value: 500},
			price: 2000,
			want:  1500,
		},
		{
			name:  "flat discount larger than price floors at zero",
			rule:  DiscountRule{Type: DiscountEuro, Value: 2500},
			price: 2000,
			want:  0,
		},
		{
			name:  "100 percent off",
			rule:  DiscountRule{Type: DiscountPercentage, Value: 100},
			price: 2000,
			want:  0,
		},
		{
			name:  "zero percent keeps full price",
			rule:  DiscountRule{Type: DiscountPercentage, Value: 0},
			price: 2000,
			want:  2000,
		},
		{
			name:  "unknown type keeps full price",
			rule:  DiscountRule{Type: "gift", Value: 10},
			price: 2000,
			want:  2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Apply(tt.price); got != tt.want {
				t.Errorf("Apply(%d) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestDiscountRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    DiscountRule
		wantErr bool
	}{
		{
			name:    "valid euro rule",
			rule:    DiscountRule{EventID: 1, TicketID: 2, Type: DiscountEuro, Value: 500},
			wantErr: false,
		},
		{
			name:    "valid percentage rule",
			rule:    DiscountRule{EventID: 1, TicketID: 2, Type: DiscountPercentage, Value: 25},
			wantErr: false,
		},
		{
			name:    "percentage over 100",
			rule:    DiscountRule{EventID: 1, TicketID: 2, Type: DiscountPercentage, Value: 120},
			wantErr: true,
		},
		{
			name:    "negative euro value",
			rule:    DiscountRule{EventID: 1, TicketID: 2, Type: DiscountEuro, Value: -1},
			wantErr: true,
		},
		{
			name:    "missing ticket id",
			rule:    DiscountRule{EventID: 1, Type: DiscountEuro, Value: 100},
			wantErr: true,
		},
		{
			name:    "unknown type",
			rule:    DiscountRule{EventID: 1, TicketID: 2, Type: "bogus", Value: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscountRule_Matches(t *testing.T) {
	rule := DiscountRule{EventID: 7, TicketID: 3}

	if !rule.Matches(7, 3) {
		t.Error("expected rule to match its own event/ticket pair")
	}
	if rule.Matches(7, 4) {
		t.Error("rule must not match a different ticket")
	}
	if rule.Matches(8, 3) {
		t.Error("rule must not match a different event")
	}
}
