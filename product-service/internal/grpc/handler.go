package grpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

// ProductServiceServer implements the gRPC ProductService. Business failures
// travel as success=false with the error string set; only infrastructure
// failures become gRPC status errors.
type ProductServiceServer struct {
	pb.UnimplementedProductServiceServer
	svc *service.ProductService
	log *zap.Logger
}

func NewProductServiceServer(svc *service.ProductService, log *zap.Logger) *ProductServiceServer {
	return &ProductServiceServer{
		svc: svc,
		log: log,
	}
}

func (s *ProductServiceServer) DecreaseStock(
	ctx context.Context,
	req *pb.DecreaseStockRequest,
) (*pb.DecreaseStockResponse, error) {

	s.log.Info("grpc DecreaseStock",
		zap.Int64("product_id", req.ProductId),
		zap.Int32("quantity", req.Quantity))

	product, err := s.svc.DecreaseStock(ctx, req.ProductId, req.Quantity)
	if err != nil {
		if isBusinessError(err) {
			return &pb.DecreaseStockResponse{
				Success: false,
				Error:   err.Error(),
			}, nil
		}
		return nil, status.Errorf(codes.Internal, "decrease stock: %v", err)
	}

	return &pb.DecreaseStockResponse{
		Success: true,
		Price:   product.Price,
		Name:    product.Name,
		Stock:   product.Stock,
		Version: product.Version,
	}, nil
}

func (s *ProductServiceServer) IncreaseStock(
	ctx context.Context,
	req *pb.IncreaseStockRequest,
) (*pb.IncreaseStockResponse, error) {

	product, err := s.svc.IncreaseStock(ctx, req.ProductId, req.Quantity)
	if err != nil {
		if isBusinessError(err) {
			return &pb.IncreaseStockResponse{
				Success: false,
				Error:   err.Error(),
			}, nil
		}
		return nil, status.Errorf(codes.Internal, "increase stock: %v", err)
	}

	return &pb.IncreaseStockResponse{
		Success: true,
		Stock:   product.Stock,
	}, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, r.ErrProductNotFound) ||
		errors.Is(err, service.ErrInsufficientStock) ||
		errors.Is(err, service.ErrConcurrencyConflict) ||
		errors.Is(err, service.ErrInvalidQuantity)
}
