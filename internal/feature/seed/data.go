package seed

import (
	"catalog-api/internal/domain"
	"catalog-api/internal/feature/product"
)

type seedUser struct {
	Email    string
	FullName string
	Password string
	Roles    []string
}

var seedUsers = []seedUser{
	{Email: "test1@google.com", FullName: "Test One", Password: "Abc123", Roles: []string{domain.RoleAdmin}},
	{Email: "test2@google.com", FullName: "Test Two", Password: "Abc123", Roles: []string{domain.RoleUser, domain.RoleSuperUser}},
}

func desc(s string) *string { return &s }
func price(f float64) *float64 { return &f }
func stock(n int) *int { return &n }

var seedProducts = []product.CreateProductInput{
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Description: desc("Introducing the Tesla Chill Collection. The Men's Chill Crew Neck Sweatshirt has a premium, heavyweight exterior and soft fleece interior."),
		Price:       price(75),
		Stock:       stock(7),
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:       "Men's Quilted Shirt Jacket",
		Description: desc("The Men's Quilted Shirt Jacket features a uniquely fit, quilted design for warmth and mobility in cold weather seasons."),
		Price:       price(200),
		Stock:       stock(5),
		Sizes:       []string{"XS", "S", "M", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"jacket"},
		Images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"},
	},
	{
		Title:       "Men's Raven Lightweight Zip Up Bomber Jacket",
		Description: desc("Introducing the Tesla Raven Collection. The Men's Raven Lightweight Zip Up Bomber has a premium, modern silhouette made from a sustainable bamboo cotton blend."),
		Price:       price(130),
		Stock:       stock(10),
		Sizes:       []string{"S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"shirt"},
		Images:      []string{"1740250-00-A_0_2000.jpg", "1740250-00-A_1.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Description: desc("The Women's Cropped Puffer Jacket features a uniquely cropped silhouette for the perfect, modern style while on the go during the cozy season ahead."),
		Price:       price(225),
		Stock:       stock(85),
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "women",
		Tags:        []string{"hoodie"},
		Images:      []string{"1740535-00-A_0_2000.jpg", "1740535-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cybertruck Long Sleeve Tee",
		Description: desc("Designed for fit, comfort and style, the Kids Cybertruck Graffiti Long Sleeve Tee features a water-based Cybertruck graffiti wordmark across the chest."),
		Price:       price(30),
		Stock:       stock(10),
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"1742694-00-A_1_2000.jpg", "1742694-00-A_2.jpg"},
	},
	{
		Title:       "Made on Earth by Humans Onesie",
		Description: desc("Show your commitment to sustainable energy with this cheeky onesie for your young one."),
		Price:       price(30),
		Stock:       stock(16),
		Sizes:       []string{"XS", "S"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"1473809-00-A_1_2000.jpg", "1473809-00-A_alt.jpg"},
	},
	{
		Title:  "Relaxed T Logo Hat",
		Price:  price(30),
		Stock:  stock(11),
		Sizes:  []string{"XS", "S"},
		Gender: "unisex",
		Tags:   []string{"hats"},
		Images: []string{"1657932-00-A_0_2000.jpg"},
	},
}
