package service

import (
	"fmt"
	"time"

	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/repository"
	"github.com/user/revu/internal/utils"
	"golang.org/x/sync/singleflight"
)

// TitleService 作品读取服务
// 评分在读取时聚合，代价在热门作品上会放大，
// 这里用缓存 + singleflight 合并并发的同一作品读取
type TitleService struct {
	titles *repository.TitleRepository
	lists  *utils.ListCache[[]*model.Title]
	sf     singleflight.Group
}

// NewTitleService 创建作品服务
func NewTitleService(titles *repository.TitleRepository) *TitleService {
	return &TitleService{
		titles: titles,
		lists:  utils.NewListCache[[]*model.Title](256, time.Minute),
	}
}

// Get 读取单个作品（带派生评分），缓存 1 分钟
func (s *TitleService) Get(id int) (*model.Title, error) {
	key := fmt.Sprintf("title:%d", id)
	if v, ok := utils.CacheGet(key); ok {
		return v.(*model.Title), nil
	}

	// singleflight 合并同一作品的并发读取
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		title, err := s.titles.FindByID(id)
		if err != nil {
			return nil, err
		}
		if title != nil {
			utils.CacheSet(key, title, time.Minute)
		}
		return title, nil
	})
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return val.(*model.Title), nil
}

// List 作品列表，按过滤条件缓存
func (s *TitleService) List(f repository.TitleFilter) ([]*model.Title, error) {
	key := fmt.Sprintf("titles:%s|%d|%s|%s|%d|%d",
		f.Name, f.Year, f.Genre, f.Category, f.Limit, f.Offset)
	if titles, ok := s.lists.Get(key); ok {
		return titles, nil
	}

	titles, err := s.titles.List(f)
	if err != nil {
		return nil, err
	}
	s.lists.Set(key, titles)
	return titles, nil
}

// Invalidate 作品或其评论变更后失效缓存
func (s *TitleService) Invalidate(titleID int) {
	utils.CacheDelete(fmt.Sprintf("title:%d", titleID))
	s.lists.Clear()
}

// InvalidateAll 目录级变更（分类/体裁增删）后全量失效
func (s *TitleService) InvalidateAll() {
	utils.CacheClear()
	s.lists.Clear()
}
