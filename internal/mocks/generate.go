package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ChangeNotifier --dir ../usecase --output usecase --outpkg usecasemock --filename change_notifier_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Generator --dir ../platform/id --output platform/id --outpkg idmock --filename generator_mock.go
