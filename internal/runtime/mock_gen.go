package runtime

//go:generate mockgen -destination=../execution/mock_node_test.go -package=execution . Node
