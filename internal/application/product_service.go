package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	repo "github.com/andikasp/gocommerce/internal/domain/repository"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

const catalogCacheKey = "catalog:list"

// ProductService owns the catalog: admin mutations, the public read-mostly
// listing (Redis-cached), and Elasticsearch-backed search.
type ProductService struct {
	Repo            repo.ProductRepository
	GCS             *storage.Client
	GCSBucket       string
	Redis           *redis.Client
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESProductsIndex string
	CacheTTL        time.Duration
}

func NewProductService(r repo.ProductRepository, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		Repo:            r,
		GCS:             gcs,
		GCSBucket:       gcsBucket,
		Redis:           rdb,
		Logger:          logger,
		ES:              es,
		ESProductsIndex: esIndex,
		CacheTTL:        cacheTTL,
	}
}

// ImageUpload is one multipart image from the admin add-product form.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// AddProductInput carries the admin form fields.
type AddProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	SubCategory string
	Sizes       []string
	Bestseller  bool
	Stock       int
	Images      []ImageUpload // 1-4
}

func (s *ProductService) AddProduct(ctx context.Context, in AddProductInput) (*entity.Product, error) {
	if len(in.Images) == 0 || len(in.Images) > 4 {
		return nil, E(KindValidation, "between 1 and 4 product images are required")
	}

	urls := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		url, err := s.uploadImage(ctx, img)
		if err != nil {
			return nil, Wrap(KindInternal, "image upload failed", err)
		}
		urls = append(urls, url)
	}

	p := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       urls,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Sizes:       in.Sizes,
		Bestseller:  in.Bestseller,
		Stock:       in.Stock,
		Date:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, Wrap(KindInternal, "failed to create product", err)
	}

	_ = s.indexProduct(ctx, p)
	s.bustCache(ctx)
	return p, nil
}

func (s *ProductService) RemoveProduct(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		return Wrap(KindInternal, "failed to remove product", err)
	}
	s.deindexProduct(ctx, id)
	s.bustCache(ctx)
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, Wrap(KindInternal, "failed to fetch product", err)
	}
	return p, nil
}

// List returns the full catalog, served from the Redis cache when warm.
func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	if s.Redis != nil && s.CacheTTL > 0 {
		var cached []entity.Product
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, catalogCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to list products", err)
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, catalogCacheKey, products, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("failed to cache catalog")
		}
	}
	return products, nil
}

// Search performs a multi_match query over name, description, and category.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description", "category", "sub_category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESProductsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, Wrap(KindInternal, "search failed", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, Wrap(KindInternal, "failed to decode search response", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ProductService) uploadImage(ctx context.Context, img ImageUpload) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := filepath.ToSlash(filepath.Join("products", id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESProductsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           p.ID.Hex(),
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"category":     p.Category,
		"sub_category": p.SubCategory,
		"bestseller":   p.Bestseller,
		"date":         p.Date.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESProductsIndex, DocumentID: p.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID.Hex()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID.Hex()).Warn("es index response error")
	}
	return nil
}

func (s *ProductService) deindexProduct(ctx context.Context, id string) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESProductsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func (s *ProductService) bustCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, catalogCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("failed to invalidate catalog cache")
	}
}
