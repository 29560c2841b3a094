/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package client

import (
	"context"
	"time"
)

func (o *clt) runTick(ctx context.Context) {
	defer o.w.Done()

	tck := time.NewTicker(o.c.TaskInterval.Time())
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-tck.C:
			o.tick(ctx, now.UTC())
		}
	}
}

func (o *clt) tick(ctx context.Context, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger().Error("panic in background task: %v", nil, rec)
		}
	}()

	if !o.s.IsOpen() {
		return
	}

	if now.Sub(o.lv.Load()) >= o.c.ResolveInterval.Time() {
		o.lv.Store(now)
		o.resolve(ctx)
	}

	if now.Sub(o.lr.Load()) >= o.c.KeepAliveInterval.Time() {
		o.lr.Store(now)
		o.sendRegister(now)
	}
}
