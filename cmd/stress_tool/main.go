package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var httpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type created struct {
	ID string `json:"id"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:5000/api/v1", "API 地址")
	users := flag.Int("users", 500, "并发用户数")
	concurrency := flag.Int("c", 200, "最大并发请求数")
	flag.Parse()

	ctx := context.Background()

	// 1. 准备数据
	var post created
	must(call(ctx, http.MethodPost, *baseURL+"/posts", map[string]interface{}{
		"name": "stress", "message": "concurrent like test",
	}, &post))
	var poll created
	must(call(ctx, http.MethodPost, *baseURL+"/polls", map[string]interface{}{
		"name": "stress", "question": "concurrent vote test", "options": []string{"a", "b"},
	}, &poll))

	fmt.Printf("开始压测：%d 个用户同时点赞帖子 %s 并投票 %s\n", *users, post.ID, poll.ID)
	time.Sleep(time.Second)

	// 2. 并发点赞与投票，每个用户各一次
	var ok, failed int64
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for i := 0; i < *users; i++ {
		userID := fmt.Sprintf("stress-user-%d", i)
		option := i % 2
		g.Go(func() error {
			if err := call(gctx, http.MethodPost, *baseURL+"/posts/"+post.ID+"/like",
				map[string]interface{}{"userId": userID}, nil); err != nil {
				atomic.AddInt64(&failed, 1)
			} else {
				atomic.AddInt64(&ok, 1)
			}
			if err := call(gctx, http.MethodPost, *baseURL+"/polls/"+poll.ID+"/vote",
				map[string]interface{}{"userId": userID, "optionIndex": option}, nil); err != nil {
				atomic.AddInt64(&failed, 1)
			} else {
				atomic.AddInt64(&ok, 1)
			}
			return nil
		})
	}
	_ = g.Wait()
	duration := time.Since(start)

	// 3. 校验计数没有丢失
	var results struct {
		TotalVotes int `json:"totalVotes"`
	}
	must(call(ctx, http.MethodGet, *baseURL+"/polls/"+poll.ID+"/results", nil, &results))
	var likes struct {
		Likes int  `json:"likes"`
		Liked bool `json:"liked"`
	}
	// 再点一次会取消点赞，返回值减一即为并发阶段的点赞数
	must(call(ctx, http.MethodPost, *baseURL+"/posts/"+post.ID+"/like",
		map[string]interface{}{"userId": "stress-user-0"}, &likes))

	total := 2 * *users
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d, QPS: %.2f\n", total, float64(total)/duration.Seconds())
	fmt.Printf("成功: %d, 失败: %d\n", ok, failed)
	fmt.Printf("点赞数: %d (预期: %d)\n", likes.Likes+1, *users)
	fmt.Printf("投票数: %d (预期: %d)\n", results.TotalVotes, *users)
	fmt.Println("--------------------------------------------------")
}

func call(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: %d %s", method, url, resp.StatusCode, raw)
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
