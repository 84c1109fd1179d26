package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name GameHistoryProvider --dir ../usecase --output usecase --outpkg usecasemock --filename game_history_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Feed --dir ../domain/league --output domain/league --outpkg leaguemock --filename feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/outcomecheck --output domain/outcomecheck --outpkg outcomecheckmock --filename repository_mock.go
