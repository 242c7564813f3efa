package shortlist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonathan/squad-builder/internal/search/mocks"
	"github.com/jonathan/squad-builder/internal/shortlist"
	"github.com/jonathan/squad-builder/internal/types"
)

func p(name string, overall int) types.Player {
	return types.Player{ShortName: name, Overall: overall, Club: "FC"}
}

func names(players []types.Player) []string {
	out := make([]string, len(players))
	for i, pl := range players {
		out[i] = pl.ShortName
	}
	return out
}

func TestAggregate_DedupsKeepingFirstOccurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)

	gomock.InOrder(
		searcher.EXPECT().Query(gomock.Any(), "fast wingers", shortlist.PrimaryK).
			Return([]types.Player{p("Vinícius", 89), p("Saka", 86), p("Vinícius", 89)}, nil),
		searcher.EXPECT().Query(gomock.Any(), shortlist.SupplementaryQueries[0], shortlist.SupplementaryK).
			Return([]types.Player{p("Alisson", 89), p("Saka", 86)}, nil),
		searcher.EXPECT().Query(gomock.Any(), shortlist.SupplementaryQueries[1], shortlist.SupplementaryK).
			Return([]types.Player{p("Pedri", 86), p("Alisson", 89)}, nil),
	)

	agg := shortlist.NewAggregator(searcher, nil)
	got, err := agg.Aggregate(context.Background(), "  fast wingers ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Vinícius", "Saka", "Alisson", "Pedri"}, names(got))

	ids := map[string]bool{}
	for _, pl := range got {
		assert.False(t, ids[pl.ID()], "duplicate %s", pl.ShortName)
		ids[pl.ID()] = true
	}
}

func TestAggregate_SameNameDifferentClubIsDistinct(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)

	a := types.Player{ShortName: "Rodri", Overall: 89, Club: "Man City"}
	b := types.Player{ShortName: "Rodri", Overall: 74, Club: "Real Betis"}
	searcher.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return([]types.Player{a, b}, nil).Times(3)

	got, err := shortlist.NewAggregator(searcher, nil).Aggregate(context.Background(), "rodri")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAggregate_EmptyQueryUsesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)

	searcher.EXPECT().Query(gomock.Any(), types.DefaultQuery, shortlist.PrimaryK).Return(nil, nil)
	searcher.EXPECT().Query(gomock.Any(), gomock.Any(), shortlist.SupplementaryK).Return(nil, nil).Times(2)

	got, err := shortlist.NewAggregator(searcher, nil).Aggregate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregate_SearchFailureIsChannelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)

	searcher.EXPECT().Query(gomock.Any(), "anything", shortlist.PrimaryK).Return([]types.Player{p("A", 80)}, nil)
	searcher.EXPECT().Query(gomock.Any(), shortlist.SupplementaryQueries[0], shortlist.SupplementaryK).
		Return(nil, errors.New("embedding quota exceeded"))

	_, err := shortlist.NewAggregator(searcher, nil).Aggregate(context.Background(), "anything")
	var chErr *types.ChannelError
	require.ErrorAs(t, err, &chErr)
	assert.Equal(t, "search", chErr.Collaborator)
	assert.Equal(t, "query", chErr.Op)
}
