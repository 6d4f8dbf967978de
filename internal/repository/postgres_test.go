package repository

import (
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"

	"roomy/internal/model"
)

func TestDormListQuery(t *testing.T) {
	price := 450.0
	near := []float32{0.1, 0.2, 0.3}

	tests := []struct {
		name      string
		query     model.DormQuery
		wantParts []string
		absent    []string
		wantArgs  int
	}{
		{
			name:      "catalog order",
			query:     model.DormQuery{},
			wantParts: []string{"WHERE 1=1", "ORDER BY verified DESC, id"},
			absent:    []string{"similarity", "LIMIT"},
			wantArgs:  0,
		},
		{
			name:      "price ceiling and limit",
			query:     model.DormQuery{PriceMax: &price, Limit: 25},
			wantParts: []string{"price <= $1", "ORDER BY verified DESC, id", "LIMIT $2"},
			absent:    []string{"embedding"},
			wantArgs:  2,
		},
		{
			name:  "similarity order",
			query: model.DormQuery{PriceMax: &price, Limit: 25, Near: near},
			wantParts: []string{
				"1 - (embedding <=> $1) AS similarity",
				"price <= $2",
				"ORDER BY embedding <=> $1 ASC NULLS LAST, verified DESC, id",
				"LIMIT $3",
			},
			wantArgs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := dormListQuery(tt.query)
			for _, part := range tt.wantParts {
				if !strings.Contains(query, part) {
					t.Errorf("query %q missing %q", query, part)
				}
			}
			for _, part := range tt.absent {
				if strings.Contains(query, part) {
					t.Errorf("query %q should not contain %q", query, part)
				}
			}
			if len(args) != tt.wantArgs {
				t.Fatalf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestDormListQuery_VectorArgument(t *testing.T) {
	near := []float32{0.5, -0.25}
	_, args := dormListQuery(model.DormQuery{Near: near})

	if len(args) != 1 {
		t.Fatalf("len(args) = %d, want 1", len(args))
	}
	vec, ok := args[0].(pgvector.Vector)
	if !ok {
		t.Fatalf("args[0] is %T, want pgvector.Vector", args[0])
	}
	got := vec.Slice()
	if len(got) != 2 || got[0] != 0.5 || got[1] != -0.25 {
		t.Errorf("vector = %v, want %v", got, near)
	}
}
