package animatch

import (
	"context"

	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	categoryuc "github.com/kailas-cloud/animatch/internal/usecase/category"
	healthuc "github.com/kailas-cloud/animatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/animatch/internal/usecase/recommend"
)

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, title string) (recommenduc.Recommendation, error)
	trendingFn  func(limit int) []item.Item
}

func (m *mockRecommendUC) Recommend(ctx context.Context, title string) (recommenduc.Recommendation, error) {
	return m.recommendFn(ctx, title)
}

func (m *mockRecommendUC) Trending(limit int) []item.Item {
	return m.trendingFn(limit)
}

// --- categoryUseCase mock ---

type mockCategoryUC struct {
	queryFn  func(ctx context.Context, category string, page int) (categoryuc.Page, error)
	genresFn func() []string
}

func (m *mockCategoryUC) Query(ctx context.Context, category string, page int) (categoryuc.Page, error) {
	return m.queryFn(ctx, category, page)
}

func (m *mockCategoryUC) ListGenres() []string {
	return m.genresFn()
}

// --- corpusUseCase mock ---

type mockCorpusUC struct {
	buildFn func(ctx context.Context) (*domcorpus.Snapshot, error)
}

func (m *mockCorpusUC) Build(ctx context.Context) (*domcorpus.Snapshot, error) {
	return m.buildFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(
	recSvc recommendUseCase,
	catSvc categoryUseCase,
	corpusSvc corpusUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		recSvc:    recSvc,
		catSvc:    catSvc,
		corpusSvc: corpusSvc,
		healthSvc: healthSvc,
	}
}
