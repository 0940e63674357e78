// Package models declares the bookshop schema.
package models

import "time"

// Publisher owns books.
type Publisher struct {
	ID   int    `po:"id,primaryKey,serial"`
	Name string `po:"name,text,notNull"`
}

type Book struct {
	ID          int    `po:"id,primaryKey,serial"`
	Title       string `po:"title,text,notNull"`
	PublisherID int    `po:"id_publisher,integer,notNull,references(publisher.id)"`
}

type Shop struct {
	ID   int    `po:"id,primaryKey,serial"`
	Name string `po:"name,text,notNull"`
}

// Stock is the number of copies of a book held by a shop.
type Stock struct {
	ID     int `po:"id,primaryKey,serial"`
	BookID int `po:"id_book,integer,notNull,references(book.id)"`
	ShopID int `po:"id_shop,integer,notNull,references(shop.id)"`
	Count  int `po:"count,integer,notNull,check(count >= 0)"`
}

// Sale records copies sold out of a stock entry. Count is optional.
type Sale struct {
	ID       int       `po:"id,primaryKey,serial"`
	Price    float64   `po:"price,numeric(10,2),notNull"`
	DateSale time.Time `po:"date_sale,date,notNull"`
	StockID  int       `po:"id_stock,integer,notNull,references(stock.id)"`
	Count    *int      `po:"count,integer"`
}
