package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-performance/internal/datasource DataSource
//go:generate mockgen -destination=./mock_cost_model.go -package=mocks github.com/rxtech-lab/argo-performance/internal/performance CostModel
